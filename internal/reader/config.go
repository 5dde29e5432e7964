package reader

import (
	"strings"
	"unicode/utf8"
)

// Config describes which lines a Reader suppresses. The zero value is not
// ready to use: call Default (or use DefaultConfig) so the length bounds
// start out disabled. A Reader never copies its Config; the owner may mutate
// fields between reads and the change applies from the next line fetched.
type Config struct {
	// TrimLines trims leading and trailing whitespace from every raw line
	// before any rule is evaluated and before the line is returned.
	TrimLines bool `mapstructure:"trim-lines"`
	// SkipEmpty suppresses lines that are empty (after trimming, when enabled).
	SkipEmpty bool `mapstructure:"skip-empty"`
	// SkipBlank suppresses lines that are empty or consist only of whitespace.
	SkipBlank bool `mapstructure:"skip-blank"`
	// MinLineLength suppresses lines with fewer runes than this. -1 disables
	// the rule; a line of exactly MinLineLength runes is kept.
	MinLineLength int `mapstructure:"min-line-length"`
	// MaxLineLength suppresses lines with more runes than this. -1 disables
	// the rule; a line of exactly MaxLineLength runes is kept.
	MaxLineLength int `mapstructure:"max-line-length"`
	// SkipContaining suppresses lines containing any entry as a substring.
	SkipContaining []string `mapstructure:"skip-containing"`
	// SkipPrefixes suppresses lines starting with any entry.
	SkipPrefixes []string `mapstructure:"skip-prefixes"`
	// SkipSuffixes suppresses lines ending with any entry.
	SkipSuffixes []string `mapstructure:"skip-suffixes"`
}

// Default resets the configuration to the pass-through state: no trimming,
// no skip rules, length bounds disabled.
func (c *Config) Default() {
	c.TrimLines = false
	c.SkipEmpty = false
	c.SkipBlank = false
	c.MinLineLength = -1
	c.MaxLineLength = -1
	c.SkipContaining = nil
	c.SkipPrefixes = nil
	c.SkipSuffixes = nil
}

// DefaultConfig returns a fresh pass-through configuration.
func DefaultConfig() *Config {
	c := &Config{}
	c.Default()
	return c
}

// skip reports whether line is suppressed by the configured rules. Rules are
// evaluated in a fixed order and the first match wins. Entries are matched
// verbatim: an empty string in any of the three lists matches every line.
func (c *Config) skip(line string) bool {
	if c.SkipEmpty && line == "" {
		return true
	}
	if c.SkipBlank && strings.TrimSpace(line) == "" {
		return true
	}
	if c.MinLineLength != -1 || c.MaxLineLength != -1 {
		n := utf8.RuneCountInString(line)
		if c.MinLineLength != -1 && n < c.MinLineLength {
			return true
		}
		if c.MaxLineLength != -1 && n > c.MaxLineLength {
			return true
		}
	}
	for _, s := range c.SkipContaining {
		if strings.Contains(line, s) {
			return true
		}
	}
	for _, p := range c.SkipPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	for _, s := range c.SkipSuffixes {
		if strings.HasSuffix(line, s) {
			return true
		}
	}
	return false
}
