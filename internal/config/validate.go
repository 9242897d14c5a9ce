package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Parser.validate(); err != nil {
		return fmt.Errorf("parser: %w", err)
	}
	if err := c.Output.validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("server: body_limit_mb must be > 0 (got %d)", c.Server.BodyLimitMB)
	}
	return nil
}

func (p *ParserConfig) validate() error {
	switch strings.ToLower(p.Dialect) {
	case "", "auto", "simple", "csv", "sections", "twins":
	default:
		return fmt.Errorf("dialect must be one of auto, simple, sections (got %q)", p.Dialect)
	}
	for i, k := range p.Keys {
		if k == "" {
			return fmt.Errorf("keys[%d] is empty", i)
		}
	}
	return nil
}

func (o *OutputConfig) validate() error {
	if !slices.Contains([]string{FormatCSV, FormatYAML}, o.Format) {
		return fmt.Errorf("format must be %q or %q (got %q)", FormatCSV, FormatYAML, o.Format)
	}
	if !slices.Contains([]string{SecondaryAuto, SecondaryAlways, SecondaryNever}, o.Secondary) {
		return fmt.Errorf("secondary must be one of auto, always, never (got %q)", o.Secondary)
	}
	return nil
}

// MergeKeys appends extra to keys, dropping empty strings and later
// duplicates. Order is kept since it decides which key wins on a line.
func MergeKeys(keys, extra []string) []string {
	seen := make(map[string]bool, len(keys)+len(extra))
	out := make([]string, 0, len(keys)+len(extra))
	for _, list := range [][]string{keys, extra} {
		for _, k := range list {
			k = strings.TrimSpace(k)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// ParseKeyList splits a comma-separated key list as given on the command
// line or in an API form field.
func ParseKeyList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return MergeKeys(strings.Split(raw, ","), nil)
}
