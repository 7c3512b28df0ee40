// Package rain renders the falling-character effect on a terminal cell
// grid. One cell is one glyph, so the grid has exactly width columns and
// height rows. Every cell carries an age that maps to dimmer shades until
// the glyph disappears, which gives each drop a fading trail.
package rain

import (
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789$#@%&*()!?><;:[]{}"

const (
	// startOffset staggers entry: drops begin up to this many rows above
	// the visible area.
	startOffset = 100
	// resetChance is the per-tick probability that a drop past the bottom
	// edge restarts at the top.
	resetChance = 0.025
	// maxAge is the trail length in ticks before a glyph fades out.
	maxAge = 20
)

var (
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#AFFFAF"))
	trailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#005F00"))
)

type cell struct {
	glyph rune
	age   int
}

// Engine holds per-column drop positions and the fading cell grid.
// It is driven externally: the caller schedules Tick at a fixed interval
// and renders Frame. It is not safe for concurrent use; the single UI
// loop is the only caller.
type Engine struct {
	cols, rows int
	drops      []int
	cells      []cell
	rng        *rand.Rand
	frames     int
	stopped    bool
}

func New(width, height int) *Engine {
	e := &Engine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	e.Resize(width, height)
	return e
}

// Resize fits the grid to a new surface size. Existing drop positions are
// kept where columns survive so the stagger is not lost on every resize.
func (e *Engine) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	drops := make([]int, width)
	for i := range drops {
		if i < len(e.drops) {
			drops[i] = e.drops[i]
		} else {
			drops[i] = -e.rng.Intn(startOffset)
		}
	}
	e.cols, e.rows = width, height
	e.drops = drops
	e.cells = make([]cell, width*height)
}

// Tick advances the animation one frame. After Stop it does nothing.
func (e *Engine) Tick() {
	if e.stopped {
		return
	}
	e.frames++

	// Fade the previous frame.
	for i := range e.cells {
		if e.cells[i].glyph != 0 {
			e.cells[i].age++
			if e.cells[i].age > maxAge {
				e.cells[i] = cell{}
			}
		}
	}

	for i := 0; i < e.cols; i++ {
		row := e.drops[i]
		if row >= 0 && row < e.rows {
			e.cells[row*e.cols+i] = cell{
				glyph: rune(alphabet[e.rng.Intn(len(alphabet))]),
			}
		}
		// Past the bottom a drop holds its position until the random
		// reset fires, so positions stay within [-startOffset, rows].
		if row >= e.rows {
			if e.rng.Float64() < resetChance {
				e.drops[i] = 0
			}
		} else {
			e.drops[i]++
		}
	}
}

// Frame renders the current grid as styled terminal lines.
func (e *Engine) Frame() string {
	var b strings.Builder
	for r := 0; r < e.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < e.cols; c++ {
			cl := e.cells[r*e.cols+c]
			switch {
			case cl.glyph == 0:
				b.WriteByte(' ')
			case cl.age == 0:
				b.WriteString(headStyle.Render(string(cl.glyph)))
			case cl.age <= maxAge/2:
				b.WriteString(trailStyle.Render(string(cl.glyph)))
			default:
				b.WriteString(faintStyle.Render(string(cl.glyph)))
			}
		}
	}
	return b.String()
}

// Stop freezes the engine. Later Ticks are ignored; the frame counter
// stays where it was. Used on teardown so no draw work happens after the
// surface is gone.
func (e *Engine) Stop() {
	e.stopped = true
}

// Stopped reports whether Stop has been called.
func (e *Engine) Stopped() bool { return e.stopped }

// Columns returns the current column count.
func (e *Engine) Columns() int { return e.cols }

// Rows returns the current row count.
func (e *Engine) Rows() int { return e.rows }

// Frames returns how many ticks have been applied.
func (e *Engine) Frames() int { return e.frames }

// DropPositions returns a copy of the per-column drop rows.
func (e *Engine) DropPositions() []int {
	out := make([]int, len(e.drops))
	copy(out, e.drops)
	return out
}

// Glyph returns a random character from the rain alphabet. The glitch
// effect borrows it to corrupt banner characters.
func Glyph(rng *rand.Rand) rune {
	return rune(alphabet[rng.Intn(len(alphabet))])
}
