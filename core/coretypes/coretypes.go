// Package coretypes provides the built-in TypeParser plug-ins for the core
// pipeline: integers, floats, booleans, timestamps, and the greedy string
// type. These are reference implementations, not a high-performance numeric
// stack (no arbitrary-precision integers, no Ryu-style float formatting) — a
// host that needs those links its own TypeParser instead.
package coretypes

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
