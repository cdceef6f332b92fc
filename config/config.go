// Package config loads a core.Options snapshot from YAML, the on-disk format
// a host uses to describe one parsing profile (delimiter, quoting, sentinels,
// and so on) without recompiling.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/k0kubun/xparse/core"
)

// Profile is the YAML-facing shape of an Options snapshot. Byte-typed fields
// are single-character strings in YAML since a raw byte has no natural
// representation there.
type Profile struct {
	Sentinel []string `yaml:"sentinel"`

	Wh1 string `yaml:"wh1"`
	Wh2 string `yaml:"wh2"`

	Quoted bool   `yaml:"quoted"`
	OQ     string `yaml:"oq"`
	CQ     string `yaml:"cq"`
	E      string `yaml:"e"`

	Delim string `yaml:"delim"`

	Decimal string `yaml:"decimal"`

	Trues  []string `yaml:"trues"`
	Falses []string `yaml:"falses"`

	DateFormat string `yaml:"date_format"`

	IgnoreRepeated   bool   `yaml:"ignore_repeated"`
	IgnoreEmptyLines bool   `yaml:"ignore_empty_lines"`
	Comment          string `yaml:"comment"`

	StripWhitespace bool `yaml:"strip_whitespace"`
	StripQuoted     bool `yaml:"strip_quoted"`
}

// Load reads a Profile from a YAML file and builds a validated Options from
// it. An empty path returns core.NewOptions(core.Options{}), the all-defaults
// profile.
func Load(path string) (*core.Options, error) {
	if path == "" {
		return core.NewOptions(core.Options{})
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return ParseString(string(buf))
}

// ParseString parses a YAML document directly, for hosts that keep the
// profile inline rather than in its own file.
func ParseString(yamlString string) (*core.Options, error) {
	if strings.TrimSpace(yamlString) == "" {
		return core.NewOptions(core.Options{})
	}

	var p Profile
	dec := yaml.NewDecoder(bytes.NewReader([]byte(yamlString)))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return p.toOptions()
}

func (p Profile) toOptions() (*core.Options, error) {
	wh1, err := singleByte("wh1", p.Wh1)
	if err != nil {
		return nil, err
	}
	wh2, err := singleByte("wh2", p.Wh2)
	if err != nil {
		return nil, err
	}
	oq, err := singleByte("oq", p.OQ)
	if err != nil {
		return nil, err
	}
	cq, err := singleByte("cq", p.CQ)
	if err != nil {
		return nil, err
	}
	e, err := singleByte("e", p.E)
	if err != nil {
		return nil, err
	}
	decimal, err := singleByte("decimal", p.Decimal)
	if err != nil {
		return nil, err
	}
	if decimal == 0 {
		decimal = '.'
	}

	opts, err := core.NewOptions(core.Options{
		Sentinel:         p.Sentinel,
		Wh1:              wh1,
		Wh2:              wh2,
		Quoted:           p.Quoted,
		OQ:               oq,
		CQ:               cq,
		E:                e,
		Delim:            p.Delim,
		Decimal:          decimal,
		Trues:            p.Trues,
		Falses:           p.Falses,
		DateFormat:       p.DateFormat,
		IgnoreRepeated:   p.IgnoreRepeated,
		IgnoreEmptyLines: p.IgnoreEmptyLines,
		Comment:          p.Comment,
		StripWhitespace:  p.StripWhitespace,
		StripQuoted:      p.StripQuoted,
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return opts, nil
}

func singleByte(field, s string) (byte, error) {
	if s == "" {
		return 0, nil
	}
	if len(s) != 1 {
		return 0, fmt.Errorf("config: %s must be exactly one byte, got %q", field, s)
	}
	return s[0], nil
}

// Save writes opts back out as a YAML Profile at path, the inverse of Load.
// Byte-typed fields round-trip as single-character strings, and a zero byte
// round-trips as the empty string, mirroring singleByte's own reading rules.
func Save(path string, opts *core.Options) error {
	buf, err := yaml.Marshal(profileFromOptions(opts))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func profileFromOptions(opts *core.Options) Profile {
	return Profile{
		Sentinel:         opts.Sentinel,
		Wh1:              byteToString(opts.Wh1),
		Wh2:              byteToString(opts.Wh2),
		Quoted:           opts.Quoted,
		OQ:               byteToString(opts.OQ),
		CQ:               byteToString(opts.CQ),
		E:                byteToString(opts.E),
		Delim:            opts.Delim,
		Decimal:          byteToString(opts.Decimal),
		Trues:            opts.Trues,
		Falses:           opts.Falses,
		DateFormat:       opts.DateFormat,
		IgnoreRepeated:   opts.IgnoreRepeated,
		IgnoreEmptyLines: opts.IgnoreEmptyLines,
		Comment:          opts.Comment,
		StripWhitespace:  opts.StripWhitespace,
		StripQuoted:      opts.StripQuoted,
	}
}

func byteToString(b byte) string {
	if b == 0 {
		return ""
	}
	return string(b)
}
