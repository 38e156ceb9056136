// Package render provides views of a snake board: a pixel canvas that
// window hosts paint, and a plain-text view for terminals.
package render

import "github.com/plus3/snek/snake"

// Board is the read side of a snake game that views draw from.
type Board interface {
	Width() int
	Height() int
	Cells(dst []snake.Cell) []snake.Cell
	Score() int
	Over() bool
	Won() bool
}
