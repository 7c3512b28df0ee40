package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTypewriterRevealsFullText(t *testing.T) {
	tw := NewTypewriter("wake up", 50*time.Millisecond)
	assert.False(t, tw.Done())

	var done bool
	for i := 0; i < len("wake up"); i++ {
		done = tw.Advance()
	}
	assert.True(t, done)
	assert.Equal(t, "wake up", tw.View())

	// Further advances are harmless.
	tw.Advance()
	assert.Equal(t, "wake up", tw.View())
}

func TestTypewriterShowsCursorWhileTyping(t *testing.T) {
	tw := NewTypewriter("abc", time.Millisecond)
	tw.Advance()
	view := tw.View()
	assert.True(t, strings.HasPrefix(view, "a"))
	assert.Contains(t, view, "█")
}

func TestGlitchViewKeepsLength(t *testing.T) {
	g := NewGlitch("THE MATRIX")
	for i := 0; i < 50; i++ {
		g.Flicker()
		plain := stripANSI(g.View())
		assert.Len(t, plain, len("THE MATRIX"))
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
