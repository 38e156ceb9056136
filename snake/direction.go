package snake

//go:generate go tool stringer -type=Direction

// Direction is the heading of the snake's head.
type Direction int

// Headings.
const (
	Up Direction = iota
	Down
	Left
	Right
)

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}
