package rules

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
)

func sortedSquares(sqs []chess.Square) []string {
	out := make([]string, 0, len(sqs))
	for _, sq := range sqs {
		out = append(out, sq.String())
	}
	sort.Strings(out)
	return out
}

func TestLegalDestinationsInitial(t *testing.T) {
	g := NewGame()

	t.Run("PawnHasSingleAndDoublePush", func(t *testing.T) {
		got := sortedSquares(g.LegalDestinations(chess.E2))
		want := []string{"e3", "e4"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("destinations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("EmptySquare", func(t *testing.T) {
		if dests := g.LegalDestinations(chess.E4); len(dests) != 0 {
			t.Errorf("expected no destinations for empty square, got %v", dests)
		}
	})

	t.Run("OpponentPiece", func(t *testing.T) {
		if dests := g.LegalDestinations(chess.E7); len(dests) != 0 {
			t.Errorf("expected no destinations for opponent piece, got %v", dests)
		}
	})
}

func TestResolveMove(t *testing.T) {
	g := NewGame()

	if m := g.ResolveMove(chess.E2, chess.E4); m == nil {
		t.Fatal("expected e2e4 to resolve")
	}
	if m := g.ResolveMove(chess.E2, chess.E5); m != nil {
		t.Errorf("expected e2e5 not to resolve, got %v", m)
	}
}

func TestApplyRejectsIllegalMove(t *testing.T) {
	g := NewGame()
	before := g.FEN()

	err := g.Apply(nil)
	var illegal *IllegalMoveError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalMoveError, got %v", err)
	}
	if g.FEN() != before {
		t.Error("position changed after rejected move")
	}
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	g, err := NewGameFromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	m := g.ResolveMove(chess.A7, chess.A8)
	if m == nil {
		t.Fatal("expected promotion to resolve")
	}
	if m.Promo() != chess.Queen {
		t.Errorf("expected queen promotion, got %v", m.Promo())
	}
	if err := g.Apply(m); err != nil {
		t.Fatal(err)
	}
	if got := g.PieceAt(chess.A8); got != chess.WhiteQueen {
		t.Errorf("expected white queen on a8, got %v", got)
	}
}

func TestCheckAfterBishopMove(t *testing.T) {
	g := NewGame()
	for _, uci := range []string{"e2e4", "d7d5", "f1b5"} {
		if _, err := g.ApplyUCI(uci); err != nil {
			t.Fatalf("apply %s: %v", uci, err)
		}
	}

	if got := g.Status(); got != Check {
		t.Fatalf("expected Check, got %v", got)
	}
	checked := g.CheckedSquares()
	if len(checked) != 1 || checked[0] != chess.E8 {
		t.Errorf("expected checked square e8, got %v", checked)
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	for _, uci := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if _, err := g.ApplyUCI(uci); err != nil {
			t.Fatalf("apply %s: %v", uci, err)
		}
	}

	if got := g.Status(); got != Checkmate {
		t.Fatalf("expected Checkmate, got %v", got)
	}
	checked := g.CheckedSquares()
	if len(checked) != 1 || checked[0] != chess.E1 {
		t.Errorf("expected checked square e1, got %v", checked)
	}
	if g.Outcome() == "" {
		t.Error("expected a decisive outcome")
	}
}

func TestStalemate(t *testing.T) {
	g, err := NewGameFromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	if got := g.Status(); got != Stalemate {
		t.Fatalf("expected Stalemate, got %v", got)
	}
	if checked := g.CheckedSquares(); len(checked) != 0 {
		t.Errorf("stalemated king is not in check, got %v", checked)
	}
}

func TestFENStartInCheck(t *testing.T) {
	g, err := NewGameFromFEN("4k3/4R3/8/8/8/8/8/4K3 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	if !g.InCheck() {
		t.Error("expected side to move to be in check")
	}
	checked := g.CheckedSquares()
	if len(checked) != 1 || checked[0] != chess.E8 {
		t.Errorf("expected checked square e8, got %v", checked)
	}
}

func TestApplyUCI(t *testing.T) {
	t.Run("LegalMove", func(t *testing.T) {
		g := NewGame()
		m, err := g.ApplyUCI("e2e4")
		if err != nil {
			t.Fatal(err)
		}
		if m.S1() != chess.E2 || m.S2() != chess.E4 {
			t.Errorf("unexpected move %v", m)
		}
		if g.Turn() != chess.Black {
			t.Error("turn did not flip after applied move")
		}
	})

	t.Run("IllegalMove", func(t *testing.T) {
		g := NewGame()
		if _, err := g.ApplyUCI("e2e5"); err == nil {
			t.Fatal("expected error for illegal move")
		}
	})

	t.Run("BarePromotionResolvesToQueen", func(t *testing.T) {
		g, err := NewGameFromFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1")
		if err != nil {
			t.Fatal(err)
		}
		m, err := g.ApplyUCI("a7a8")
		if err != nil {
			t.Fatal(err)
		}
		if m.Promo() != chess.Queen {
			t.Errorf("expected queen promotion, got %v", m.Promo())
		}
	})
}

func TestSANHistory(t *testing.T) {
	g := NewGame()
	for _, uci := range []string{"e2e4", "e7e5", "g1f3"} {
		if _, err := g.ApplyUCI(uci); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"e4", "e5", "Nf3"}
	if diff := cmp.Diff(want, g.SANHistory()); diff != "" {
		t.Errorf("SAN history mismatch (-want +got):\n%s", diff)
	}
}
