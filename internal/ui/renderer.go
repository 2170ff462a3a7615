package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/notnil/chess"

	"chesscompanion/internal/rules"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	Background     color.RGBA
	TextColor      color.RGBA
	MutedTextColor color.RGBA
	ButtonColor    color.RGBA
	ButtonHover    color.RGBA
	BannerColor    color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{100, 149, 237, 160}, // Cornflower blue
		LegalMoveColor: color.RGBA{34, 139, 34, 140},   // Forest green
		LastMoveColor:  color.RGBA{180, 190, 100, 90},  // Soft yellow-green
		CheckColor:     color.RGBA{255, 60, 60, 140},   // Red
		Background:     color.RGBA{40, 44, 52, 255},    // Dark gray
		TextColor:      color.RGBA{220, 220, 220, 255}, // Light gray
		MutedTextColor: color.RGBA{150, 150, 150, 255}, // Dim gray
		ButtonColor:    color.RGBA{60, 64, 72, 255},    // Medium gray
		ButtonHover:    color.RGBA{80, 84, 92, 255},    // Lighter gray
		BannerColor:    color.RGBA{15, 15, 15, 200},    // Overlay
	}
}

// Renderer draws the board, highlights, and pieces. It is stateless with
// respect to the game; every frame receives the geometry and reads from the
// session.
type Renderer struct {
	sprites *SpriteManager
	theme   *Theme
}

// NewRenderer creates a renderer with piece sprites loaded from assetDir.
func NewRenderer(assetDir string, squareSize int) *Renderer {
	return &Renderer{
		sprites: NewSpriteManager(assetDir, squareSize),
		theme:   DefaultTheme(),
	}
}

// SetSquareSize re-rasterizes sprites after a resize.
func (r *Renderer) SetSquareSize(size int) {
	r.sprites.SetSize(size)
}

// DrawBackground fills the whole window.
func (r *Renderer) DrawBackground(screen *ebiten.Image) {
	screen.Fill(r.theme.Background)
}

// DrawBoard draws the checkered squares.
func (r *Renderer) DrawBoard(screen *ebiten.Image, g BoardGeometry) {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			c := r.theme.DarkSquare
			if (rank+file)%2 == 1 {
				c = r.theme.LightSquare
			}
			rect := g.SquareRect(rules.SquareAt(file, rank))
			vector.DrawFilledRect(screen, float32(rect.Min.X), float32(rect.Min.Y),
				float32(g.SquareSize), float32(g.SquareSize), c, false)
		}
	}
}

// DrawHighlights overlays the last move, check markers, current selection,
// and legal destination dots, in that order so the selection stays visible.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, g BoardGeometry, sel chess.Square, dests, checked []chess.Square, lastMove *chess.Move) {
	if lastMove != nil {
		r.highlightSquare(screen, g, lastMove.S1(), r.theme.LastMoveColor)
		r.highlightSquare(screen, g, lastMove.S2(), r.theme.LastMoveColor)
	}
	for _, sq := range checked {
		r.highlightSquare(screen, g, sq, r.theme.CheckColor)
	}
	if sel != rules.NoSquare {
		r.highlightSquare(screen, g, sel, r.theme.SelectedSquare)
	}
	for _, sq := range dests {
		r.drawLegalMoveIndicator(screen, g, sq)
	}
}

func (r *Renderer) highlightSquare(screen *ebiten.Image, g BoardGeometry, sq chess.Square, c color.RGBA) {
	if sq == rules.NoSquare {
		return
	}
	rect := g.SquareRect(sq)
	vector.DrawFilledRect(screen, float32(rect.Min.X), float32(rect.Min.Y),
		float32(g.SquareSize), float32(g.SquareSize), c, false)
}

func (r *Renderer) drawLegalMoveIndicator(screen *ebiten.Image, g BoardGeometry, sq chess.Square) {
	rect := g.SquareRect(sq)
	cx := float32(rect.Min.X) + float32(g.SquareSize)/2
	cy := float32(rect.Min.Y) + float32(g.SquareSize)/2
	radius := float32(g.SquareSize) * 0.15
	vector.DrawFilledCircle(screen, cx, cy, radius, r.theme.LegalMoveColor, true)
}

// DrawPieces draws every piece on the board.
func (r *Renderer) DrawPieces(screen *ebiten.Image, g BoardGeometry, game *rules.Game) {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := game.PieceAt(sq)
		if piece == chess.NoPiece {
			continue
		}
		rect := g.SquareRect(sq)
		r.sprites.DrawPieceAt(screen, piece, rect.Min.X, rect.Min.Y)
	}
}

// DrawBanner dims the board and centers the outcome text over it when the
// game has ended.
func (r *Renderer) DrawBanner(screen *ebiten.Image, g BoardGeometry, line string) {
	vector.DrawFilledRect(screen, float32(g.OriginX), float32(g.OriginY),
		float32(g.BoardSize()), float32(g.BoardSize()), r.theme.BannerColor, false)

	face := GetBoldFace()
	if face == nil {
		return
	}
	w, h := MeasureText(line, face)
	x := float64(g.OriginX) + float64(g.BoardSize())/2 - w/2
	y := float64(g.OriginY) + float64(g.BoardSize())/2 - h/2

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(r.theme.TextColor)
	text.Draw(screen, line, face, op)
}

// Theme returns the active theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// Sprites returns the sprite manager.
func (r *Renderer) Sprites() *SpriteManager {
	return r.sprites
}
