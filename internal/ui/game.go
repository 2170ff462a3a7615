package ui

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/notnil/chess"

	"chesscompanion/internal/engine"
	"chesscompanion/internal/play"
	"chesscompanion/internal/rules"
	"chesscompanion/internal/storage"
)

// Default window dimensions.
const (
	ScreenWidth  = 1200
	ScreenHeight = 800
)

// Config wires the game's collaborators. Engine and Store may be nil: with
// no engine the human plays both sides, with no store nothing is persisted.
type Config struct {
	Engine    *engine.Client
	Store     *storage.Store
	MoveTime  time.Duration
	AssetDir  string
	ShowHints bool
}

// Game implements ebiten.Game over a play.Session.
type Game struct {
	session  *play.Session
	input    *InputHandler
	renderer *Renderer
	panel    *Panel
	notices  *ToastManager

	engine *engine.Client
	store  *storage.Store

	geom       BoardGeometry
	winW, winH int
	showHints  bool

	lastNotice string
	recorded   bool
}

// NewGame builds the game from its config.
func NewGame(cfg Config) *Game {
	// A nil *Client inside a non-nil interface would defeat the session's
	// nil check, so only assign when an engine actually exists.
	var mover play.Mover
	if cfg.Engine != nil {
		mover = cfg.Engine
	}

	assetDir := cfg.AssetDir
	if assetDir == "" {
		assetDir = DefaultAssetDir
	}

	g := &Game{
		session:   play.NewSession(mover, cfg.MoveTime),
		input:     NewInputHandler(),
		notices:   NewToastManager(),
		engine:    cfg.Engine,
		store:     cfg.Store,
		winW:      ScreenWidth,
		winH:      ScreenHeight,
		showHints: cfg.ShowHints,
	}
	g.geom = FitBoard(g.winW, g.winH)
	g.renderer = NewRenderer(assetDir, g.geom.SquareSize)

	engineName := ""
	if cfg.Engine != nil {
		engineName = cfg.Engine.Name()
	}
	g.panel = NewPanel(g.session, engineName, g.newGameAction)

	if g.renderer.Sprites().MissingCount() > 0 {
		g.notices.Show("Some piece images missing, using placeholders", ToastWarning, 4*time.Second)
	}
	return g
}

func (g *Game) newGameAction() {
	g.session.Reset()
	g.recorded = false
	g.lastNotice = ""
	g.notices.Show("New game started", ToastInfo, 2*time.Second)
}

// Update advances input handling, the session, and notifications.
func (g *Game) Update() error {
	g.input.Update()
	g.notices.Update()

	if !g.panel.HandleInput(g.input) {
		g.handleBoardInput()
	}

	g.session.Poll()

	// Surface a freshly raised session notice as a toast once.
	if n := g.session.Notice(); n != "" && n != g.lastNotice {
		g.lastNotice = n
		g.notices.Show(n, ToastError, 5*time.Second)
	}

	g.recordOutcomeOnce()
	return nil
}

func (g *Game) handleBoardInput() {
	if !g.input.IsLeftJustPressed() {
		return
	}
	mx, my := g.input.MousePosition()
	if sq, ok := g.geom.SquareAt(mx, my); ok {
		g.session.HandleClick(sq)
	}
}

// recordOutcomeOnce persists the result the first frame the session enters
// the terminal state. Results only count against the engine.
func (g *Game) recordOutcomeOnce() {
	if g.recorded || g.session.State() != play.GameOver {
		return
	}
	g.recorded = true
	if g.store == nil || !g.session.AIEnabled() {
		return
	}

	var result storage.Result
	switch g.session.Status() {
	case rules.Checkmate:
		// The side to move is the one that got mated.
		result.Won = g.session.Game().Turn() == chess.Black
	default:
		result.Draw = true
	}
	if err := g.store.RecordGame(result); err != nil {
		log.Printf("[STORE] record game: %v", err)
	}
}

// Draw renders one frame.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.DrawBackground(screen)
	g.renderer.DrawBoard(screen, g.geom)
	snap := g.session.Snapshot()
	if !g.showHints {
		snap.Destinations = nil
	}
	g.renderer.DrawHighlights(screen, g.geom,
		snap.Selection, snap.Destinations, snap.Checked, snap.LastMove)
	g.renderer.DrawPieces(screen, g.geom, g.session.Game())

	g.panel.Draw(screen)
	g.notices.Draw(screen, g.geom)

	if snap.Over {
		g.renderer.DrawBanner(screen, g.geom, snap.StatusLine)
	}
}

// Layout recomputes the board geometry whenever the window size changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.winW, g.winH
	}
	if outsideWidth != g.winW || outsideHeight != g.winH {
		g.winW, g.winH = outsideWidth, outsideHeight
		g.geom = FitBoard(g.winW, g.winH)
		g.renderer.SetSquareSize(g.geom.SquareSize)
		g.panel.Resize(g.winW, g.winH)
	}
	return g.winW, g.winH
}

// Close releases the engine process and the store.
func (g *Game) Close() {
	if g.engine != nil {
		if err := g.engine.Close(); err != nil {
			log.Printf("[ENGINE] close: %v", err)
		}
	}
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			log.Printf("[STORE] close: %v", err)
		}
	}
}
