// Package patterns provides the placeholder regex compiler used to declare
// token recognisers, plus coordinate helpers.
// This file contains the pattern compiler.

package patterns

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Format is a named pattern with {PLACEHOLDER} references and named
// capture groups. Patterns always match a whole token.
type Format struct {
	Name     string         // Format name for identification
	Pattern  string         // Pattern with {PLACEHOLDER} syntax
	Compiled *regexp.Regexp // Compiled regex (populated by Compile)
	Fields   []string       // Capture names in order (populated by Compile)
}

// Compiler manages pattern compilation and matching for a set of formats.
type Compiler struct {
	basePatterns map[string]string
	formats      []Format
	byName       map[string]int
}

// NewCompiler creates a new pattern compiler with the given formats.
// It merges the provided base patterns with the global BasePatterns,
// allowing local patterns to override global ones.
func NewCompiler(formats []Format, localPatterns map[string]string) *Compiler {
	c := &Compiler{
		basePatterns: make(map[string]string),
		formats:      make([]Format, len(formats)),
		byName:       make(map[string]int, len(formats)),
	}

	for k, v := range BasePatterns {
		c.basePatterns[k] = v
	}
	for k, v := range localPatterns {
		c.basePatterns[k] = v
	}

	copy(c.formats, formats)
	for i, f := range c.formats {
		c.byName[f.Name] = i
	}

	return c
}

// Compile expands all {PLACEHOLDER} references, anchors and compiles the
// regexes.
func (c *Compiler) Compile() error {
	for i := range c.formats {
		expanded := "^(?:" + c.expand(c.formats[i].Pattern) + ")$"
		re, err := regexp.Compile(expanded)
		if err != nil {
			return fmt.Errorf("format %s: %w", c.formats[i].Name, err)
		}
		c.formats[i].Compiled = re
		c.formats[i].Fields = nil
		for _, name := range re.SubexpNames() {
			if name != "" {
				c.formats[i].Fields = append(c.formats[i].Fields, name)
			}
		}
	}
	return nil
}

// expand replaces {PLACEHOLDER} with the grouped base pattern.
func (c *Compiler) expand(pattern string) string {
	result := pattern
	for name, regex := range c.basePatterns {
		result = strings.ReplaceAll(result, "{"+name+"}", "(?:"+regex+")")
	}
	return result
}

// Expanded returns the full regex of a format, for diagnostics.
func (c *Compiler) Expanded(name string) string {
	i, ok := c.byName[name]
	if !ok {
		return ""
	}
	return "^(?:" + c.expand(c.formats[i].Pattern) + ")$"
}

// Match represents a successful pattern match with extracted fields.
type Match struct {
	FormatName string            // Name of the matched format
	Captures   map[string]string // Named capture group values
}

// Match matches text against a single named format. Matching is case
// insensitive. It returns nil when the format does not match.
func (c *Compiler) Match(name, text string) *Match {
	i, ok := c.byName[name]
	if !ok || c.formats[i].Compiled == nil {
		return nil
	}
	return matchFormat(c.formats[i], strings.ToUpper(text))
}

func matchFormat(format Format, text string) *Match {
	match := format.Compiled.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	result := &Match{
		FormatName: format.Name,
		Captures:   make(map[string]string),
	}
	for i, name := range format.Compiled.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		result.Captures[name] = match[i]
	}
	return result
}

// GetCapture is a helper to safely get a capture value with a default.
func (m *Match) GetCapture(name string, defaultVal string) string {
	if m == nil {
		return defaultVal
	}
	if val, ok := m.Captures[name]; ok && val != "" {
		return val
	}
	return defaultVal
}

// Has reports whether a capture group took part in the match.
func (m *Match) Has(name string) bool {
	return m != nil && m.Captures[name] != ""
}

// Int returns a numeric capture. ok is false when the group is empty.
func (m *Match) Int(name string) (int, bool) {
	v := m.GetCapture(name, "")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatTrace contains debug information about a format match attempt.
type FormatTrace struct {
	Name     string            // Format name
	Matched  bool              // Whether the pattern matched
	Pattern  string            // The expanded regex pattern
	Captures map[string]string // Captured groups (if matched)
}

// ParseTrace contains complete trace information for a parse attempt.
type ParseTrace struct {
	Formats []FormatTrace // All format match attempts
	Match   *Match        // The first successful match (if any)
}

// ParseWithTrace matches text against every format and records each
// attempt. This is useful for debugging why a token is not recognised.
func (c *Compiler) ParseWithTrace(text string) *ParseTrace {
	upperText := strings.ToUpper(text)
	trace := &ParseTrace{
		Formats: make([]FormatTrace, 0, len(c.formats)),
	}

	for _, format := range c.formats {
		ft := FormatTrace{
			Name:    format.Name,
			Pattern: c.Expanded(format.Name),
		}
		if format.Compiled != nil {
			if m := matchFormat(format, upperText); m != nil {
				ft.Matched = true
				ft.Captures = m.Captures
				if trace.Match == nil {
					trace.Match = m
				}
			}
		}
		trace.Formats = append(trace.Formats, ft)
	}

	return trace
}
