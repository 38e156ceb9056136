package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/plus3/snek/snake"
)

// DefaultCellSize is the edge of one cell in pixels, excluding grid lines.
const DefaultCellSize = 10

// Palette holds the canvas colors.
type Palette struct {
	Grid  color.RGBA
	Board color.RGBA
	Snake color.RGBA
	Head  color.RGBA
	Apple color.RGBA
}

// DefaultPalette is the classic light-blue board.
var DefaultPalette = Palette{
	Grid:  color.RGBA{R: 0x8F, G: 0xA8, B: 0xC4, A: 0xFF},
	Board: color.RGBA{R: 0xB8, G: 0xD0, B: 0xEB, A: 0xFF},
	Snake: color.RGBA{R: 0x26, G: 0xC4, B: 0x85, A: 0xFF},
	Head:  color.RGBA{R: 0x1E, G: 0x9E, B: 0x6B, A: 0xFF},
	Apple: color.RGBA{R: 0xFF, G: 0x66, B: 0x66, A: 0xFF},
}

// Painter fills rectangles on some drawing surface.
type Painter interface {
	FillRect(r image.Rectangle, c color.RGBA)
}

// Canvas lays the board out as square cells separated by one-pixel grid
// lines. Render snapshots the board; Paint draws the latest snapshot, so a
// host can repaint every display frame while the board only changes on
// steps.
type Canvas struct {
	board    Board
	cellSize int
	palette  Palette

	mu         sync.RWMutex
	cells      []snake.Cell
	generation uint64
}

// NewCanvas creates a canvas for board. A cellSize below 1 uses DefaultCellSize.
func NewCanvas(board Board, cellSize int, palette Palette) *Canvas {
	if cellSize < 1 {
		cellSize = DefaultCellSize
	}
	return &Canvas{
		board:    board,
		cellSize: cellSize,
		palette:  palette,
	}
}

// Size returns the canvas size in pixels.
func (c *Canvas) Size() (width, height int) {
	return (c.cellSize+1)*c.board.Width() + 1, (c.cellSize+1)*c.board.Height() + 1
}

// Render snapshots the board's cells.
func (c *Canvas) Render() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cells = c.board.Cells(c.cells)
	c.generation++
	return nil
}

// Generation counts completed renders.
func (c *Canvas) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Frame returns a copy of the latest snapshot, row-major.
func (c *Canvas) Frame() []snake.Cell {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]snake.Cell(nil), c.cells...)
}

// CellRect returns the pixel rectangle of the cell at x, y.
func (c *Canvas) CellRect(x, y int) image.Rectangle {
	x0 := x*(c.cellSize+1) + 1
	y0 := y*(c.cellSize+1) + 1
	return image.Rect(x0, y0, x0+c.cellSize, y0+c.cellSize)
}

// Paint draws the latest snapshot: the grid first, then every cell. Nothing
// is drawn before the first Render.
func (c *Canvas) Paint(p Painter) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.cells) == 0 {
		return
	}

	w, h := c.Size()
	p.FillRect(image.Rect(0, 0, w, h), c.palette.Grid)

	width := c.board.Width()
	for i, cell := range c.cells {
		p.FillRect(c.CellRect(i%width, i/width), c.colorOf(cell))
	}
}

func (c *Canvas) colorOf(cell snake.Cell) color.RGBA {
	switch cell {
	case snake.Body:
		return c.palette.Snake
	case snake.Head:
		return c.palette.Head
	case snake.Apple:
		return c.palette.Apple
	default:
		return c.palette.Board
	}
}
