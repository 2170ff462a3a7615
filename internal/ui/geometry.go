package ui

import (
	"image"

	"github.com/notnil/chess"

	"chesscompanion/internal/rules"
)

const (
	// SidebarWidth is reserved at the right edge for the info panel.
	SidebarWidth = 300
	// MinSquareSize keeps squares usable on degenerate window sizes.
	MinSquareSize = 16
)

// BoardGeometry places the 8x8 grid inside the window. It is a pure value
// recomputed from the window size; squares and pixels are derived from it
// and never cached across a resize.
type BoardGeometry struct {
	OriginX    int
	OriginY    int
	SquareSize int
}

// FitBoard computes the largest board that fits the window next to the
// sidebar. The board sits flush to the left edge, vertically centered.
func FitBoard(width, height int) BoardGeometry {
	avail := width - SidebarWidth
	if height < avail {
		avail = height
	}
	sq := avail / 8
	if sq < MinSquareSize {
		sq = MinSquareSize
	}

	g := BoardGeometry{SquareSize: sq}
	if extra := height - sq*8; extra > 0 {
		g.OriginY = extra / 2
	}
	return g
}

// BoardSize returns the board edge length in pixels.
func (g BoardGeometry) BoardSize() int {
	return g.SquareSize * 8
}

// SquareAt maps a pixel to the square beneath it. ok is false for pixels
// outside the board (sidebar, margins).
func (g BoardGeometry) SquareAt(x, y int) (sq chess.Square, ok bool) {
	x -= g.OriginX
	y -= g.OriginY
	if x < 0 || y < 0 || x >= g.BoardSize() || y >= g.BoardSize() {
		return rules.NoSquare, false
	}
	file := x / g.SquareSize
	rank := 7 - y/g.SquareSize // rank 1 at the bottom
	return rules.SquareAt(file, rank), true
}

// SquareRect returns the pixel rectangle covering a square.
func (g BoardGeometry) SquareRect(sq chess.Square) image.Rectangle {
	x := g.OriginX + int(sq.File())*g.SquareSize
	y := g.OriginY + (7-int(sq.Rank()))*g.SquareSize
	return image.Rect(x, y, x+g.SquareSize, y+g.SquareSize)
}
