package ui

import (
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"matrixchat/internal/rain"
)

var (
	glitchStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FF00"))
	corruptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AFFFAF"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
)

// Typewriter reveals text one character per advance, like a slow terminal.
type Typewriter struct {
	text  string
	pos   int
	speed time.Duration
}

func NewTypewriter(text string, speed time.Duration) Typewriter {
	return Typewriter{text: text, speed: speed}
}

// Advance reveals the next character and reports whether the full text is
// now visible.
func (t *Typewriter) Advance() bool {
	if t.pos < len(t.text) {
		t.pos++
	}
	return t.Done()
}

func (t Typewriter) Done() bool {
	return t.pos >= len(t.text)
}

func (t Typewriter) Speed() time.Duration {
	return t.speed
}

func (t Typewriter) View() string {
	if t.Done() {
		return t.text
	}
	return t.text[:t.pos] + cursorStyle.Render("█")
}

// Glitch renders a banner that occasionally corrupts a character for a
// single frame, using the rain alphabet for replacements.
type Glitch struct {
	text     string
	rng      *rand.Rand
	corrupt  int
	scramble rune
}

func NewGlitch(text string) Glitch {
	return Glitch{
		text:    text,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		corrupt: -1,
	}
}

// Flicker rolls the corruption for the next frame. Most frames show the
// text untouched.
func (g *Glitch) Flicker() {
	if g.rng.Float64() < 0.3 && len(g.text) > 0 {
		g.corrupt = g.rng.Intn(len(g.text))
		g.scramble = rain.Glyph(g.rng)
	} else {
		g.corrupt = -1
	}
}

func (g Glitch) View() string {
	if g.corrupt < 0 {
		return glitchStyle.Render(g.text)
	}
	var b strings.Builder
	for i, r := range g.text {
		if i == g.corrupt {
			b.WriteString(corruptStyle.Render(string(g.scramble)))
		} else {
			b.WriteString(glitchStyle.Render(string(r)))
		}
	}
	return b.String()
}
