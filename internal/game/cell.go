package game

import "fmt"

// Cell is one grid square. Coordinates grow right and down, with (0,0) in
// the top-left corner. Value type, no identity.
type Cell struct {
	X int
	Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Heading is the snake's direction of travel.
type Heading int

const (
	HeadingUp Heading = iota
	HeadingRight
	HeadingDown
	HeadingLeft
)

func (h Heading) String() string {
	switch h {
	case HeadingUp:
		return "up"
	case HeadingRight:
		return "right"
	case HeadingDown:
		return "down"
	case HeadingLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Delta returns the per-tick cell offset. Up decreases Y (screen coordinates).
func (h Heading) Delta() (dx, dy int) {
	switch h {
	case HeadingUp:
		return 0, -1
	case HeadingRight:
		return 1, 0
	case HeadingDown:
		return 0, 1
	case HeadingLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the 180-degree reversal of h.
func (h Heading) Opposite() Heading {
	switch h {
	case HeadingUp:
		return HeadingDown
	case HeadingRight:
		return HeadingLeft
	case HeadingDown:
		return HeadingUp
	case HeadingLeft:
		return HeadingRight
	default:
		return h
	}
}
