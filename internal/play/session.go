// Package play implements the interaction state machine: it turns clicked
// squares and engine replies into selections, highlights, applied moves, and
// turn changes. It is free of any rendering or window concern so the
// transition table is directly testable.
package play

import (
	"log"
	"time"

	"github.com/notnil/chess"

	"chesscompanion/internal/rules"
)

// State identifies where the interaction loop currently is.
type State int

const (
	AwaitingSelection State = iota
	PieceSelected
	AwaitingAI
	GameOver
)

func (s State) String() string {
	switch s {
	case PieceSelected:
		return "piece selected"
	case AwaitingAI:
		return "awaiting ai"
	case GameOver:
		return "game over"
	}
	return "awaiting selection"
}

// Turn says which side is entitled to move next.
type Turn int

const (
	TurnHuman Turn = iota
	TurnAI
)

// Mover is the engine adapter surface the session drives. RequestMove may
// block for the whole budget; the session only calls it from a worker
// goroutine.
type Mover interface {
	RequestMove(fen string, budget time.Duration) (string, error)
	NewGameReset() error
}

type engineResult struct {
	gen int
	uci string
	err error
}

// Session owns the selection, highlight sets, turn and game status. All
// mutation happens inside HandleClick, Poll and Reset, which the frame loop
// calls from a single goroutine.
type Session struct {
	game *rules.Game

	state     State
	turn      Turn
	status    rules.Status
	selection chess.Square
	dests     []chess.Square
	checked   []chess.Square

	mover     Mover
	aiEnabled bool
	budget    time.Duration
	gen       int
	pending   bool
	results   chan engineResult

	notice string
}

// NewSession starts a game from the initial position. The human plays White;
// a nil mover means the human plays both sides. budget is the engine's time
// allowance per move.
func NewSession(mover Mover, budget time.Duration) *Session {
	if budget <= 0 {
		budget = 100 * time.Millisecond
	}
	return &Session{
		game:      rules.NewGame(),
		selection: rules.NoSquare,
		mover:     mover,
		aiEnabled: mover != nil,
		budget:    budget,
		results:   make(chan engineResult, 1),
	}
}

// Game exposes the rules handle for rendering. Callers must not mutate it.
func (s *Session) Game() *rules.Game { return s.game }

// State returns the current interaction state.
func (s *Session) State() State { return s.state }

// Turn returns the side entitled to move next.
func (s *Session) Turn() Turn { return s.turn }

// Status returns the game status as of the last applied move.
func (s *Session) Status() rules.Status { return s.status }

// Selection returns the selected square, rules.NoSquare when none.
func (s *Session) Selection() chess.Square { return s.selection }

// Destinations returns the legal destinations for the current selection.
func (s *Session) Destinations() []chess.Square { return s.dests }

// CheckedSquares returns the king square(s) currently in check.
func (s *Session) CheckedSquares() []chess.Square { return s.checked }

// Notice returns the current user-visible notice, e.g. "AI unavailable".
func (s *Session) Notice() string { return s.notice }

// AIEnabled reports whether an engine is still answering for Black.
func (s *Session) AIEnabled() bool { return s.aiEnabled }

// Thinking reports whether an engine request is outstanding.
func (s *Session) Thinking() bool { return s.state == AwaitingAI }

// Snapshot is the read-only render view of a session for one frame.
type Snapshot struct {
	Selection    chess.Square
	Destinations []chess.Square
	Checked      []chess.Square
	LastMove     *chess.Move
	Status       rules.Status
	StatusLine   string
	Notice       string
	Thinking     bool
	Over         bool
}

// Snapshot captures everything the presentation layer draws.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Selection:    s.selection,
		Destinations: s.dests,
		Checked:      s.checked,
		LastMove:     s.game.LastMove(),
		Status:       s.status,
		StatusLine:   s.StatusText(),
		Notice:       s.notice,
		Thinking:     s.state == AwaitingAI,
		Over:         s.state == GameOver,
	}
}

// HandleClick feeds one board click into the state machine.
func (s *Session) HandleClick(sq chess.Square) {
	switch s.state {
	case GameOver, AwaitingAI:
		// Terminal, or the engine owns the move. Ignore.
	case AwaitingSelection:
		s.trySelect(sq)
	case PieceSelected:
		s.clickWithSelection(sq)
	}
}

func (s *Session) trySelect(sq chess.Square) {
	p := s.game.PieceAt(sq)
	if p == chess.NoPiece || p.Color() != s.game.Turn() {
		return
	}
	s.selection = sq
	s.dests = s.game.LegalDestinations(sq)
	s.state = PieceSelected
}

func (s *Session) clickWithSelection(sq chess.Square) {
	if sq == s.selection {
		s.clearSelection()
		return
	}
	if s.isDestination(sq) {
		if m := s.game.ResolveMove(s.selection, sq); m != nil {
			s.applyHumanMove(m)
			return
		}
	}
	// Clicking another own piece moves the selection; anything else drops it.
	s.clearSelection()
	s.trySelect(sq)
}

func (s *Session) isDestination(sq chess.Square) bool {
	for _, d := range s.dests {
		if d == sq {
			return true
		}
	}
	return false
}

func (s *Session) clearSelection() {
	s.selection = rules.NoSquare
	s.dests = nil
	s.state = AwaitingSelection
}

func (s *Session) applyHumanMove(m *chess.Move) {
	if err := s.game.Apply(m); err != nil {
		// Guarded by ResolveMove, so this indicates a broken invariant.
		log.Printf("[PLAY] resolved move %v rejected: %v", m, err)
		s.clearSelection()
		return
	}
	s.clearSelection()
	s.refreshDerived()

	if s.terminal() {
		s.state = GameOver
		return
	}
	if !s.aiEnabled {
		return // human moves both sides
	}
	s.turn = TurnAI
	s.state = AwaitingAI
	s.requestEngineMove()
}

// requestEngineMove launches the one outstanding engine request. A failure
// is retried once with a fresh request before being reported.
func (s *Session) requestEngineMove() {
	if s.pending {
		log.Printf("[AI] request already outstanding, not issuing another")
		return
	}
	s.pending = true
	gen := s.gen
	fen := s.game.FEN()
	budget := s.budget
	mover := s.mover

	go func() {
		uci, err := mover.RequestMove(fen, budget)
		if err != nil {
			log.Printf("[AI] request failed, retrying once: %v", err)
			uci, err = mover.RequestMove(fen, budget)
		}
		s.results <- engineResult{gen: gen, uci: uci, err: err}
	}()
}

// Poll applies a pending engine result, if any. The frame loop calls it once
// per update; results are only ever applied here, inside the state machine
// step.
func (s *Session) Poll() {
	for {
		select {
		case res := <-s.results:
			if res.gen != s.gen {
				continue // leftover from an abandoned game
			}
			s.pending = false
			if s.state == AwaitingAI {
				s.finishEngineMove(res)
			}
		default:
			return
		}
	}
}

func (s *Session) finishEngineMove(res engineResult) {
	if res.err != nil {
		log.Printf("[AI] giving up after retry: %v", res.err)
		s.disableAI()
		return
	}
	if _, err := s.game.ApplyUCI(res.uci); err != nil {
		log.Printf("[AI] engine sent illegal move %q: %v", res.uci, err)
		s.disableAI()
		return
	}
	s.refreshDerived()

	if s.terminal() {
		s.state = GameOver
		return
	}
	s.turn = TurnHuman
	s.state = AwaitingSelection
}

// disableAI hands the game back to the human after the engine failed twice,
// leaving the position playable without AI.
func (s *Session) disableAI() {
	s.aiEnabled = false
	s.notice = "AI unavailable - you control both sides"
	s.turn = TurnHuman
	s.state = AwaitingSelection
}

// refreshDerived recomputes status and check highlights after an applied
// move. Never called speculatively.
func (s *Session) refreshDerived() {
	s.status = s.game.Status()
	s.checked = s.game.CheckedSquares()
}

func (s *Session) terminal() bool {
	switch s.status {
	case rules.Checkmate, rules.Stalemate, rules.Draw:
		return true
	}
	return false
}

// Reset abandons the current game and starts a fresh one. An outstanding
// engine result, should it still arrive, is discarded by generation.
func (s *Session) Reset() {
	s.gen++
	s.pending = false
	for len(s.results) > 0 {
		<-s.results
	}
	s.game = rules.NewGame()
	s.selection = rules.NoSquare
	s.dests = nil
	s.checked = nil
	s.status = rules.InProgress
	s.turn = TurnHuman
	s.state = AwaitingSelection
	s.notice = ""
	if s.mover != nil {
		s.aiEnabled = true
		if err := s.mover.NewGameReset(); err != nil {
			log.Printf("[AI] ucinewgame failed: %v", err)
		}
	}
}

// StatusText renders the status line for the sidebar.
func (s *Session) StatusText() string {
	switch s.status {
	case rules.Checkmate:
		if s.game.Turn() == chess.White {
			return "Checkmate - Black wins"
		}
		return "Checkmate - White wins"
	case rules.Stalemate:
		return "Stalemate - draw"
	case rules.Draw:
		return "Draw"
	case rules.Check:
		if s.game.Turn() == chess.White {
			return "White to move (check!)"
		}
		return "Black to move (check!)"
	}
	if s.state == AwaitingAI {
		return "AI thinking..."
	}
	if s.game.Turn() == chess.White {
		return "White to move"
	}
	return "Black to move"
}
