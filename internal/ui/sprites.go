package ui

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/notnil/chess"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// DefaultAssetDir is where piece SVGs are looked up relative to the
// working directory.
const DefaultAssetDir = "assets/pieces"

// pieceFiles maps pieces to their asset file names.
var pieceFiles = map[chess.Piece]string{
	chess.WhitePawn:   "wP.svg",
	chess.WhiteKnight: "wN.svg",
	chess.WhiteBishop: "wB.svg",
	chess.WhiteRook:   "wR.svg",
	chess.WhiteQueen:  "wQ.svg",
	chess.WhiteKing:   "wK.svg",
	chess.BlackPawn:   "bP.svg",
	chess.BlackKnight: "bN.svg",
	chess.BlackBishop: "bB.svg",
	chess.BlackRook:   "bR.svg",
	chess.BlackQueen:  "bQ.svg",
	chess.BlackKing:   "bK.svg",
}

var pieceLetters = map[chess.PieceType]string{
	chess.Pawn:   "P",
	chess.Knight: "N",
	chess.Bishop: "B",
	chess.Rook:   "R",
	chess.Queen:  "Q",
	chess.King:   "K",
}

// SpriteManager rasterizes piece SVGs at the current square size. A missing
// or unreadable asset is reported once at startup and drawn as a lettered
// placeholder disc instead of crashing.
type SpriteManager struct {
	svgs    map[chess.Piece][]byte
	pieces  map[chess.Piece]*ebiten.Image
	size    int
	missing int
}

// NewSpriteManager loads the piece assets from dir and rasterizes them at
// the given square size.
func NewSpriteManager(dir string, size int) *SpriteManager {
	sm := &SpriteManager{
		svgs:   make(map[chess.Piece][]byte),
		pieces: make(map[chess.Piece]*ebiten.Image),
		size:   size,
	}
	for piece, name := range pieceFiles {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[ASSETS] %s unavailable, using placeholder: %v", path, err)
			sm.missing++
			continue
		}
		sm.svgs[piece] = data
	}
	sm.rasterize()
	return sm
}

// MissingCount returns how many piece assets could not be loaded.
func (sm *SpriteManager) MissingCount() int { return sm.missing }

// SetSize re-rasterizes the sprites for a new square size. No-op when the
// size is unchanged.
func (sm *SpriteManager) SetSize(size int) {
	if size == sm.size || size <= 0 {
		return
	}
	sm.size = size
	sm.rasterize()
}

func (sm *SpriteManager) rasterize() {
	sm.pieces = make(map[chess.Piece]*ebiten.Image)
	for piece, data := range sm.svgs {
		img, err := renderSVG(data, sm.size)
		if err != nil {
			log.Printf("[ASSETS] %s failed to render, using placeholder: %v", pieceFiles[piece], err)
			continue
		}
		sm.pieces[piece] = img
	}
}

func renderSVG(data []byte, size int) (*ebiten.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return ebiten.NewImageFromImage(rgba), nil
}

// DrawPieceAt draws a piece at the given pixel coordinates.
func (sm *SpriteManager) DrawPieceAt(screen *ebiten.Image, p chess.Piece, x, y int) {
	if p == chess.NoPiece {
		return
	}
	if sprite, ok := sm.pieces[p]; ok {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(x), float64(y))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(sprite, op)
		return
	}
	sm.drawPlaceholder(screen, p, x, y)
}

// drawPlaceholder renders a disc with the piece letter when the SVG asset
// is unavailable.
func (sm *SpriteManager) drawPlaceholder(screen *ebiten.Image, p chess.Piece, x, y int) {
	cx := float32(x) + float32(sm.size)/2
	cy := float32(y) + float32(sm.size)/2
	radius := float32(sm.size) * 0.38

	disc := color.RGBA{245, 245, 245, 255}
	letterColor := color.RGBA{25, 25, 25, 255}
	if p.Color() == chess.Black {
		disc = color.RGBA{35, 35, 35, 255}
		letterColor = color.RGBA{235, 235, 235, 255}
	}
	vector.DrawFilledCircle(screen, cx, cy, radius, disc, true)

	face := GetFaceWithSize(float64(sm.size) * 0.45)
	if face == nil {
		return
	}
	letter := pieceLetters[p.Type()]
	w, h := MeasureText(letter, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(cx)-w/2, float64(cy)-h/2)
	op.ColorScale.ScaleWithColor(letterColor)
	text.Draw(screen, letter, face, op)
}
