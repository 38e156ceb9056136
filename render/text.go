package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/plus3/snek/snake"
)

const clearScreen = "\x1b[H\x1b[2J"

var glyphs = [...]byte{
	snake.Space: '.',
	snake.Body:  'o',
	snake.Head:  '@',
	snake.Apple: '*',
}

// Text writes each render as a block of ASCII rows followed by a status line.
type Text struct {
	board Board
	w     io.Writer
	clear bool

	cells []snake.Cell
	buf   strings.Builder
}

// NewText creates a text view writing to w. With clear set, every frame
// starts with an ANSI home-and-clear sequence.
func NewText(board Board, w io.Writer, clear bool) *Text {
	return &Text{board: board, w: w, clear: clear}
}

// Render writes the current board as one frame. Writer errors are returned.
func (t *Text) Render() error {
	t.cells = t.board.Cells(t.cells)
	width := t.board.Width()

	t.buf.Reset()
	if t.clear {
		t.buf.WriteString(clearScreen)
	}
	for i, cell := range t.cells {
		t.buf.WriteByte(glyphs[cell])
		if (i+1)%width == 0 {
			t.buf.WriteByte('\n')
		}
	}

	status := "playing"
	switch {
	case t.board.Won():
		status = "won"
	case t.board.Over():
		status = "game over"
	}
	fmt.Fprintf(&t.buf, "score: %d  %s\n", t.board.Score(), status)

	if _, err := io.WriteString(t.w, t.buf.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
