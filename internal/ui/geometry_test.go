package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

func TestFitBoard(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		a := FitBoard(1200, 800)
		b := FitBoard(1200, 800)
		if diff := cmp.Diff(a, b); diff != "" {
			t.Errorf("identical input produced different geometry:\n%s", diff)
		}
	})

	t.Run("ReservesSidebar", func(t *testing.T) {
		g := FitBoard(1200, 800)
		// 1200 - 300 sidebar = 900 wide, height 800 limits: 800/8 = 100.
		if g.SquareSize != 100 {
			t.Errorf("square size = %d, want 100", g.SquareSize)
		}
		if g.BoardSize()+SidebarWidth > 1200 {
			t.Error("board overlaps the sidebar")
		}
	})

	t.Run("VerticallyCentered", func(t *testing.T) {
		g := FitBoard(1000, 800)
		// 1000 - 300 = 700 wide limits: 700/8 = 87, board 696, margin 104.
		if g.SquareSize != 87 {
			t.Errorf("square size = %d, want 87", g.SquareSize)
		}
		if g.OriginY != (800-g.BoardSize())/2 {
			t.Errorf("origin y = %d, want centered", g.OriginY)
		}
	})

	t.Run("ClampsToMinimum", func(t *testing.T) {
		for _, dims := range [][2]int{{310, 50}, {1, 1}, {400, 30}} {
			g := FitBoard(dims[0], dims[1])
			if g.SquareSize < MinSquareSize {
				t.Errorf("FitBoard(%d, %d) square size %d below minimum", dims[0], dims[1], g.SquareSize)
			}
		}
	})
}

func TestSquareRoundTrip(t *testing.T) {
	for _, g := range []BoardGeometry{
		FitBoard(1200, 800),
		FitBoard(960, 640),
		FitBoard(431, 317),
	} {
		for sq := chess.A1; sq <= chess.H8; sq++ {
			r := g.SquareRect(sq)
			cx := r.Min.X + r.Dx()/2
			cy := r.Min.Y + r.Dy()/2
			got, ok := g.SquareAt(cx, cy)
			if !ok || got != sq {
				t.Fatalf("geometry %+v: center of %v mapped to %v (ok=%v)", g, sq, got, ok)
			}
		}
	}
}

func TestSquareAtOutsideBoard(t *testing.T) {
	g := FitBoard(1200, 800)

	cases := []struct {
		name string
		x, y int
	}{
		{"Sidebar", g.BoardSize() + 10, 100},
		{"BelowBoard", 10, g.OriginY + g.BoardSize() + 1},
		{"AboveBoard", 10, g.OriginY - 1},
		{"Negative", -5, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if sq, ok := g.SquareAt(tc.x, tc.y); ok {
				t.Errorf("pixel (%d,%d) unexpectedly mapped to %v", tc.x, tc.y, sq)
			}
		})
	}
}

func TestRankOrientation(t *testing.T) {
	g := FitBoard(1200, 800)

	// White's back rank is at the bottom of the board.
	sq, ok := g.SquareAt(g.OriginX+1, g.OriginY+g.BoardSize()-1)
	if !ok || sq != chess.A1 {
		t.Errorf("bottom-left pixel = %v, want a1", sq)
	}
	sq, ok = g.SquareAt(g.OriginX+1, g.OriginY+1)
	if !ok || sq != chess.A8 {
		t.Errorf("top-left pixel = %v, want a8", sq)
	}
}
