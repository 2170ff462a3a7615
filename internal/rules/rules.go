// Package rules wraps the notnil/chess library behind the small surface the
// interaction loop needs: legal destinations for a square, move application,
// game status, and the squares currently giving check. The library owns the
// position; nothing outside this package mutates it.
package rules

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// NoSquare marks the absence of a square (no selection, off-board pixel).
const NoSquare chess.Square = -1

// SquareAt returns the square at the given file and rank, both 0-7.
func SquareAt(file, rank int) chess.Square {
	return chess.Square(rank*8 + file)
}

// Status summarizes the game after the last applied move.
type Status int

const (
	InProgress Status = iota
	Check
	Checkmate
	Stalemate
	Draw
)

func (s Status) String() string {
	switch s {
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Draw:
		return "draw"
	}
	return "in progress"
}

// IllegalMoveError reports a move rejected by the rules library. It is
// recovered locally by the interaction loop, never surfaced as a hard error.
type IllegalMoveError struct {
	UCI string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %q", e.UCI)
}

// Game owns the current position. All mutation goes through Apply/ApplyUCI.
type Game struct {
	game     *chess.Game
	lastMove *chess.Move
	san      []string
}

// NewGame starts a game from the standard initial arrangement.
func NewGame() *Game {
	return &Game{game: chess.NewGame(chess.UseNotation(chess.UCINotation{}))}
}

// NewGameFromFEN starts a game from an arbitrary position.
func NewGameFromFEN(fen string) (*Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	return &Game{game: chess.NewGame(opt, chess.UseNotation(chess.UCINotation{}))}, nil
}

// Turn returns the side to move.
func (g *Game) Turn() chess.Color {
	return g.game.Position().Turn()
}

// PieceAt returns the piece on sq, chess.NoPiece if empty.
func (g *Game) PieceAt(sq chess.Square) chess.Piece {
	return g.game.Position().Board().Piece(sq)
}

// FEN returns the current position in FEN notation.
func (g *Game) FEN() string {
	return g.game.Position().String()
}

// LastMove returns the most recently applied move, nil before the first.
func (g *Game) LastMove() *chess.Move {
	return g.lastMove
}

// SANHistory returns the applied moves in standard algebraic notation.
func (g *Game) SANHistory() []string {
	return g.san
}

// LegalDestinations returns every square the piece on from may move to.
// Empty when the square is empty or holds a piece of the side not to move.
func (g *Game) LegalDestinations(from chess.Square) []chess.Square {
	p := g.PieceAt(from)
	if p == chess.NoPiece || p.Color() != g.Turn() {
		return nil
	}
	var dests []chess.Square
	seen := make(map[chess.Square]bool)
	for _, m := range g.game.ValidMoves() {
		if m.S1() != from || seen[m.S2()] {
			continue
		}
		seen[m.S2()] = true
		dests = append(dests, m.S2())
	}
	return dests
}

// ResolveMove finds the legal move from one square to another, or nil.
// When the destination is a promotion square the queen variant is chosen;
// that policy is deliberate and fixed.
func (g *Game) ResolveMove(from, to chess.Square) *chess.Move {
	var fallback *chess.Move
	for _, m := range g.game.ValidMoves() {
		if m.S1() != from || m.S2() != to {
			continue
		}
		if m.Promo() == chess.NoPieceType || m.Promo() == chess.Queen {
			return m
		}
		if fallback == nil {
			fallback = m
		}
	}
	return fallback
}

// Apply plays a move. The move must come from ResolveMove or ApplyUCI so its
// tags are intact; anything else is rejected with IllegalMoveError.
func (g *Game) Apply(m *chess.Move) error {
	if m == nil {
		return &IllegalMoveError{}
	}
	san := chess.AlgebraicNotation{}.Encode(g.game.Position(), m)
	if err := g.game.Move(m); err != nil {
		return &IllegalMoveError{UCI: m.String()}
	}
	g.lastMove = m
	g.san = append(g.san, san)
	g.claimDraws()
	return nil
}

// ApplyUCI validates a move in UCI notation (e2e4, e7e8q) against the legal
// set and plays it. Engine replies go through here; they are never trusted.
func (g *Game) ApplyUCI(uci string) (*chess.Move, error) {
	for _, m := range g.game.ValidMoves() {
		if m.String() == uci {
			return m, g.Apply(m)
		}
	}
	// A bare from-to pair for a promotion resolves like a human click would.
	if len(uci) == 4 {
		from, to, ok := parseSquares(uci)
		if ok {
			if m := g.ResolveMove(from, to); m != nil {
				return m, g.Apply(m)
			}
		}
	}
	return nil, &IllegalMoveError{UCI: uci}
}

func parseSquares(uci string) (from, to chess.Square, ok bool) {
	ff, fr := int(uci[0]-'a'), int(uci[1]-'1')
	tf, tr := int(uci[2]-'a'), int(uci[3]-'1')
	if ff < 0 || ff > 7 || fr < 0 || fr > 7 || tf < 0 || tf > 7 || tr < 0 || tr > 7 {
		return NoSquare, NoSquare, false
	}
	return SquareAt(ff, fr), SquareAt(tf, tr), true
}

// claimDraws claims any draw the side to move is entitled to. Threefold and
// the fifty-move rule need an explicit claim; the library applies the
// automatic draws (insufficient material, 75-move, fivefold) itself.
func (g *Game) claimDraws() {
	for _, method := range g.game.EligibleDraws() {
		if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
			_ = g.game.Draw(method)
			return
		}
	}
}

// Status reports the game state, recomputed from the library.
func (g *Game) Status() Status {
	switch g.game.Method() {
	case chess.Checkmate:
		return Checkmate
	case chess.Stalemate:
		return Stalemate
	}
	if g.game.Outcome() != chess.NoOutcome {
		return Draw
	}
	if g.InCheck() {
		return Check
	}
	return InProgress
}

// InCheck reports whether the side to move is in check. The last applied
// move carries a Check tag from move generation; a game constructed from FEN
// with no moves yet falls back to probing the position.
func (g *Game) InCheck() bool {
	if g.lastMove != nil {
		return g.lastMove.HasTag(chess.Check)
	}
	return positionInCheck(g.game.Position())
}

// CheckedSquares returns the king square(s) of the side to move while in
// check, derived fresh from the position.
func (g *Game) CheckedSquares() []chess.Square {
	if !g.InCheck() {
		return nil
	}
	if sq := kingSquare(g.game.Position().Board(), g.Turn()); sq != NoSquare {
		return []chess.Square{sq}
	}
	return nil
}

// Outcome describes a finished game ("1-0 (checkmate)"), empty while running.
func (g *Game) Outcome() string {
	if g.game.Outcome() == chess.NoOutcome {
		return ""
	}
	return fmt.Sprintf("%s (%s)", g.game.Outcome(), g.game.Method())
}

func kingSquare(b *chess.Board, c chess.Color) chess.Square {
	king := chess.WhiteKing
	if c == chess.Black {
		king = chess.BlackKing
	}
	for sq := chess.A1; sq <= chess.H8; sq++ {
		if b.Piece(sq) == king {
			return sq
		}
	}
	return NoSquare
}

// positionInCheck hands the move to the opponent and looks for a reply that
// lands on the king square. The few positions where the checking piece is
// itself pinned are misreported, which is acceptable for the FEN-start
// diagnostic path only; the normal flow uses move tags.
func positionInCheck(pos *chess.Position) bool {
	kingSq := kingSquare(pos.Board(), pos.Turn())
	if kingSq == NoSquare {
		return false
	}
	fields := strings.Fields(pos.String())
	if len(fields) < 4 {
		return false
	}
	if pos.Turn() == chess.White {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-" // en passant is meaningless for the probe
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return false
	}
	probe := chess.NewGame(opt)
	for _, m := range probe.ValidMoves() {
		if m.S2() == kingSq {
			return true
		}
	}
	return false
}
