// Package snake implements the snake board: a single snake on a
// width x height grid chasing one apple.
package snake

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/kamstrup/intmap"
)

const (
	// InitialLength is the length of a freshly placed snake.
	InitialLength = 4

	minWidth  = InitialLength + 1
	minHeight = 2

	noApple = -1
)

// ErrBoardTooSmall is returned when the board cannot hold the initial snake.
var ErrBoardTooSmall = errors.New("board too small")

// Cell is the content of one board cell.
type Cell uint8

const (
	// Space is an empty cell.
	Space Cell = iota
	// Body is a snake cell other than the head.
	Body
	// Head is the cell the snake moves from.
	Head
	// Apple is the cell holding the apple.
	Apple
)

// Option configures a Game.
type Option func(*Game)

// WithRand sets the random source used to place apples.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// Game is the board state. Cells are indexed row-major: y*width + x.
type Game struct {
	width  int
	height int

	// body holds cell indices from tail to head.
	body     []int
	occupied *intmap.Set[int]

	apple     int
	direction Direction
	over      bool
	won       bool

	rng *rand.Rand
}

// New creates a board with the snake on row 1, columns 1 to 4, heading
// right. No apple is placed until Init or PlaceApple.
func New(width, height int, opts ...Option) (*Game, error) {
	if width < minWidth || height < minHeight {
		return nil, fmt.Errorf("%w: %dx%d, need at least %dx%d", ErrBoardTooSmall, width, height, minWidth, minHeight)
	}

	g := &Game{
		width:     width,
		height:    height,
		body:      make([]int, 0, InitialLength),
		occupied:  intmap.NewSet[int](width * height),
		apple:     noApple,
		direction: Right,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	for i := 0; i < InitialLength; i++ {
		g.push(g.index(1+i, 1))
	}
	return g, nil
}

// Init places the first apple.
func (g *Game) Init() {
	g.PlaceApple()
}

// Advance moves the game forward one tick.
func (g *Game) Advance() error {
	g.Tick()
	return nil
}

// Tick moves the head one cell in the current direction. Leaving the board
// or running into the body ends the game. Eating the apple grows the snake
// by one and places a new apple.
func (g *Game) Tick() {
	if g.over {
		return
	}

	next, ok := g.nextCell()
	if !ok {
		g.over = true
		return
	}

	if next == g.apple {
		g.push(next)
		g.PlaceApple()
		return
	}

	g.dropTail()
	g.push(next)
}

// SetDirection changes the heading. Reversing onto the body is refused.
func (g *Game) SetDirection(d Direction) bool {
	if d == g.direction.Opposite() {
		return false
	}
	g.direction = d
	return true
}

// PlaceApple moves the apple to a random free cell. A full board ends the
// game as won.
func (g *Game) PlaceApple() {
	free := g.width*g.height - len(g.body)
	if free <= 0 {
		g.apple = noApple
		g.over = true
		g.won = true
		return
	}

	pick := g.rng.IntN(free)
	for i := 0; i < g.width*g.height; i++ {
		if g.occupied.Has(i) {
			continue
		}
		if pick == 0 {
			g.apple = i
			return
		}
		pick--
	}
}

func (g *Game) nextCell() (int, bool) {
	x, y := g.coords(g.body[len(g.body)-1])
	dx, dy := g.direction.delta()
	x, y = x+dx, y+dy

	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, false
	}

	next := g.index(x, y)
	if g.occupied.Has(next) {
		return 0, false
	}
	return next, true
}

func (g *Game) push(idx int) {
	g.body = append(g.body, idx)
	g.occupied.Add(idx)
}

func (g *Game) dropTail() {
	g.occupied.Del(g.body[0])
	g.body = g.body[1:]
}

func (g *Game) index(x, y int) int {
	return y*g.width + x
}

func (g *Game) coords(idx int) (x, y int) {
	return idx % g.width, idx / g.width
}

// Width returns the number of columns.
func (g *Game) Width() int { return g.width }

// Height returns the number of rows.
func (g *Game) Height() int { return g.height }

// Len returns the snake's length in cells.
func (g *Game) Len() int { return len(g.body) }

// Score is the number of apples eaten.
func (g *Game) Score() int { return len(g.body) - InitialLength }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.over }

// Won reports whether the game ended with the board full.
func (g *Game) Won() bool { return g.won }

// Direction returns the current heading.
func (g *Game) Direction() Direction { return g.direction }

// Head returns the head's coordinates.
func (g *Game) Head() (x, y int) {
	return g.coords(g.body[len(g.body)-1])
}

// Apple returns the apple's coordinates, or ok=false if none is placed.
func (g *Game) Apple() (x, y int, ok bool) {
	if g.apple == noApple {
		return 0, 0, false
	}
	x, y = g.coords(g.apple)
	return x, y, true
}

// CellAt returns the content of the cell at x, y. Out-of-range cells are Space.
func (g *Game) CellAt(x, y int) Cell {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Space
	}
	idx := g.index(x, y)
	switch {
	case idx == g.body[len(g.body)-1]:
		return Head
	case g.occupied.Has(idx):
		return Body
	case idx == g.apple:
		return Apple
	default:
		return Space
	}
}

// Cells writes the board row-major into dst, growing it as needed, and
// returns it.
func (g *Game) Cells(dst []Cell) []Cell {
	n := g.width * g.height
	if cap(dst) < n {
		dst = make([]Cell, n)
	}
	dst = dst[:n]
	clear(dst)

	for _, idx := range g.body {
		dst[idx] = Body
	}
	dst[g.body[len(g.body)-1]] = Head
	if g.apple != noApple {
		dst[g.apple] = Apple
	}
	return dst
}
