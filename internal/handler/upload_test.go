package handler

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateFileName(t *testing.T) {
	t.Run("short name untouched", func(t *testing.T) {
		assert.Equal(t, "img.png", truncateFileName("img.png", maxFilenameLen))
	})

	t.Run("ascii keeps tail with extension", func(t *testing.T) {
		name := strings.Repeat("a", 300) + ".png"
		got := truncateFileName(name, maxFilenameLen)
		assert.LessOrEqual(t, len(got), maxFilenameLen)
		assert.True(t, strings.HasSuffix(got, ".png"))
	})

	t.Run("multi-byte runes never split", func(t *testing.T) {
		// Each character is 3 bytes; 100 of them exceed a 255-byte cap at a
		// non-rune boundary.
		name := strings.Repeat("文", 100) + ".txt"
		got := truncateFileName(name, maxFilenameLen)
		assert.LessOrEqual(t, len(got), maxFilenameLen)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, ".txt"))
	})
}
