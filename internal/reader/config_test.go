package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_DefaultPassesEverything(t *testing.T) {
	cfg := DefaultConfig()
	for _, line := range []string{"", " ", "a", "# comment", "trailing ", "long-line-content"} {
		assert.False(t, cfg.skip(line), "line %q should pass a default config", line)
	}
}

func TestConfig_SkipEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipEmpty = true

	assert.True(t, cfg.skip(""))
	assert.False(t, cfg.skip("  "), "whitespace-only is not empty")
	assert.False(t, cfg.skip("a"))
}

func TestConfig_SkipBlank(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipBlank = true

	assert.True(t, cfg.skip(""))
	assert.True(t, cfg.skip("   "))
	assert.True(t, cfg.skip("\t \t"))
	assert.False(t, cfg.skip(" a "))
}

func TestConfig_LineLengthBounds(t *testing.T) {
	t.Run("min is strict", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MinLineLength = 3

		assert.True(t, cfg.skip("ab"))
		assert.False(t, cfg.skip("abc"), "exactly min must be kept")
		assert.False(t, cfg.skip("abcd"))
	})

	t.Run("max is strict", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxLineLength = 3

		assert.False(t, cfg.skip("abc"), "exactly max must be kept")
		assert.True(t, cfg.skip("abcd"))
	})

	t.Run("length counts runes not bytes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxLineLength = 3

		// three runes, five bytes
		assert.False(t, cfg.skip("héé"))
		cfg.MaxLineLength = 2
		assert.True(t, cfg.skip("héé"))
	})

	t.Run("disabled bounds skip nothing", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.False(t, cfg.skip(""))
		assert.False(t, cfg.skip("arbitrarily-long-line-of-text"))
	})
}

func TestConfig_SkipContaining(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipContaining = []string{"#", "TODO"}

	assert.True(t, cfg.skip("a # b"))
	assert.True(t, cfg.skip("x TODO y"))
	assert.False(t, cfg.skip("plain"))

	// empty list never matches
	cfg.SkipContaining = nil
	assert.False(t, cfg.skip("a # b"))

	// an empty entry matches every line, including the empty one
	cfg.SkipContaining = []string{""}
	assert.True(t, cfg.skip(""))
	assert.True(t, cfg.skip("anything"))
}

func TestConfig_SkipPrefixes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipPrefixes = []string{"#", "//"}

	assert.True(t, cfg.skip("# comment"))
	assert.True(t, cfg.skip("// comment"))
	assert.False(t, cfg.skip(" # indented"))
	assert.False(t, cfg.skip("val # trailing"))
}

func TestConfig_SkipSuffixes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipSuffixes = []string{";", "\\"}

	assert.True(t, cfg.skip("stmt;"))
	assert.True(t, cfg.skip("continued\\"))
	assert.False(t, cfg.skip("; leading"))
}

func TestConfig_RuleCombinations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipEmpty = true
	cfg.SkipPrefixes = []string{"#"}
	cfg.MaxLineLength = 10

	assert.True(t, cfg.skip(""))
	assert.False(t, cfg.skip("  "))
	assert.False(t, cfg.skip("keep"))
	assert.True(t, cfg.skip("# comment"))
	assert.True(t, cfg.skip("toolong-line-here"))
}

func TestConfig_DefaultResets(t *testing.T) {
	cfg := &Config{
		TrimLines:      true,
		SkipEmpty:      true,
		SkipBlank:      true,
		MinLineLength:  2,
		MaxLineLength:  8,
		SkipContaining: []string{"x"},
		SkipPrefixes:   []string{"y"},
		SkipSuffixes:   []string{"z"},
	}
	cfg.Default()

	assert.False(t, cfg.TrimLines)
	assert.False(t, cfg.SkipEmpty)
	assert.False(t, cfg.SkipBlank)
	assert.Equal(t, -1, cfg.MinLineLength)
	assert.Equal(t, -1, cfg.MaxLineLength)
	assert.Empty(t, cfg.SkipContaining)
	assert.Empty(t, cfg.SkipPrefixes)
	assert.Empty(t, cfg.SkipSuffixes)
}
