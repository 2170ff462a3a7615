package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"chesscompanion/internal/play"
)

// Panel layout
const (
	PanelPadding   = 20
	SectionSpacing = 28
	ButtonHeight   = 40
	SectionLabelH  = 20
	moveRowHeight  = 22
	statusBarH     = 70
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}    // Dark background
	buttonPressedBg = color.RGBA{40, 44, 50, 255}    // Button pressed (darker)
	accentColor     = color.RGBA{76, 175, 120, 255}  // Green accent
	accentHover     = color.RGBA{96, 195, 140, 255}  // Lighter green on hover
	accentPressed   = color.RGBA{56, 155, 100, 255}  // Darker green on press
	textPrimary     = color.RGBA{240, 240, 245, 255} // Primary text
	textSecondary   = color.RGBA{160, 165, 175, 255} // Secondary text
	textMuted       = color.RGBA{120, 125, 135, 255} // Muted text
	dividerColor    = color.RGBA{60, 65, 72, 255}    // Divider line
	moveRowAlt      = color.RGBA{44, 48, 54, 255}    // Alternating row
	statusThinking  = color.RGBA{100, 180, 255, 255} // Blue for thinking
	statusGameOver  = color.RGBA{255, 200, 80, 255}  // Yellow for game over
	noticeColor     = color.RGBA{230, 170, 70, 255}  // Amber notice
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	hovered    bool
	pressed    bool
}

// Panel is the sidebar with the game status, move history, and controls.
type Panel struct {
	session    *play.Session
	engineName string

	newGameBtn *Button

	// Panel position, recomputed on resize.
	x, width, height int

	// Move history scroll
	scrollY    int
	maxScrollY int
}

// NewPanel creates the sidebar for a session. onNewGame runs when the
// New Game button is clicked.
func NewPanel(session *play.Session, engineName string, onNewGame func()) *Panel {
	p := &Panel{
		session:    session,
		engineName: engineName,
		newGameBtn: &Button{Label: "New Game", OnClick: onNewGame},
	}
	p.Resize(ScreenWidth, ScreenHeight)
	return p
}

// Resize repositions the panel for a new window size.
func (p *Panel) Resize(width, height int) {
	p.x = width - SidebarWidth
	if p.x < 0 {
		p.x = 0
	}
	p.width = SidebarWidth
	p.height = height

	p.newGameBtn.X = p.x + PanelPadding
	p.newGameBtn.Y = PanelPadding + SectionLabelH + 16
	p.newGameBtn.W = p.width - PanelPadding*2
	p.newGameBtn.H = ButtonHeight
}

// HandleInput processes clicks and scrolling. Returns true if the panel
// consumed the input.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		historyY := p.historyStartY()
		if mx >= p.x && my >= historyY && my < p.height-statusBarH {
			p.scrollY -= int(wheelY * 30)
			if p.scrollY < 0 {
				p.scrollY = 0
			}
			if p.scrollY > p.maxScrollY {
				p.scrollY = p.maxScrollY
			}
		}
	}

	p.newGameBtn.hovered = p.isInside(mx, my, p.newGameBtn)
	p.newGameBtn.pressed = input.IsLeftPressed() && p.newGameBtn.hovered

	if input.IsLeftJustPressed() {
		if p.newGameBtn.hovered {
			p.newGameBtn.OnClick()
			return true
		}
		// Swallow clicks anywhere on the panel so they never reach the board.
		if mx >= p.x {
			return true
		}
	}
	return false
}

func (p *Panel) isInside(mx, my int, btn *Button) bool {
	return mx >= btn.X && mx < btn.X+btn.W && my >= btn.Y && my < btn.Y+btn.H
}

func (p *Panel) historyStartY() int {
	return p.newGameBtn.Y + p.newGameBtn.H + SectionSpacing + SectionLabelH + 10
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, float32(p.x), 0, float32(p.width), float32(p.height), panelBg, false)

	p.drawTitle(screen)
	p.drawPrimaryButton(screen, p.newGameBtn)

	historyY := p.historyStartY()
	p.drawSectionLabel(screen, "Moves", p.x+PanelPadding, historyY-SectionLabelH)
	p.drawMoveHistory(screen, historyY)

	p.drawStatusBar(screen)
}

func (p *Panel) drawTitle(screen *ebiten.Image) {
	face := GetBoldFace()
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(p.x+PanelPadding), float64(PanelPadding))
	op.ColorScale.ScaleWithColor(textPrimary)
	text.Draw(screen, "Chess Companion", face, op)
}

func (p *Panel) drawPrimaryButton(screen *ebiten.Image, btn *Button) {
	bgColor := accentColor
	if btn.pressed {
		bgColor = accentPressed
	} else if btn.hovered {
		bgColor = accentHover
	}
	vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), bgColor, false)

	borderC := color.RGBA{56, 155, 100, 255}
	if btn.hovered {
		borderC = color.RGBA{116, 215, 160, 255}
	}
	vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 1, borderC, false)

	p.drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, textPrimary)
}

func (p *Panel) drawSectionLabel(screen *ebiten.Image, label string, x, y int) {
	p.drawText(screen, label, x, y, textMuted)
}

func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	moves := p.session.Game().SANHistory()
	if len(moves) == 0 {
		p.drawText(screen, "No moves yet", p.x+PanelPadding, startY+5, textMuted)
		return
	}

	x := p.x + PanelPadding
	maxY := p.height - statusBarH
	visibleHeight := maxY - startY

	totalRows := (len(moves) + 1) / 2
	contentHeight := totalRows * moveRowHeight
	p.maxScrollY = contentHeight - visibleHeight
	if p.maxScrollY < 0 {
		p.maxScrollY = 0
	}
	if p.scrollY > p.maxScrollY {
		p.scrollY = p.maxScrollY
	}

	startRow := p.scrollY / moveRowHeight
	y := startY - (p.scrollY % moveRowHeight)

	for i := startRow * 2; i < len(moves); i += 2 {
		if y > maxY {
			break
		}
		if y >= startY-moveRowHeight && (i/2)%2 == 1 {
			bgY := y - 2
			if bgY < startY {
				bgY = startY
			}
			vector.DrawFilledRect(screen, float32(x-4), float32(bgY),
				float32(p.width-PanelPadding*2+8), float32(moveRowHeight), moveRowAlt, false)
		}
		if y >= startY {
			p.drawText(screen, fmt.Sprintf("%d.", i/2+1), x, y, textMuted)
			p.drawText(screen, moves[i], x+36, y, textPrimary)
			if i+1 < len(moves) {
				p.drawText(screen, moves[i+1], x+120, y, textPrimary)
			}
		}
		y += moveRowHeight
	}

	if p.maxScrollY > 0 {
		scrollPct := float32(p.scrollY) / float32(p.maxScrollY)
		indicatorH := float32(visibleHeight) * float32(visibleHeight) / float32(contentHeight)
		if indicatorH < 20 {
			indicatorH = 20
		}
		indicatorY := float32(startY) + scrollPct*(float32(visibleHeight)-indicatorH)
		vector.DrawFilledRect(screen, float32(p.x+p.width-8), indicatorY, 4, indicatorH, textMuted, false)
	}
}

func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	statusY := p.height - statusBarH
	x := p.x + PanelPadding

	vector.DrawFilledRect(screen, float32(x), float32(statusY-10),
		float32(p.width-PanelPadding*2), 1, dividerColor, false)

	opponent := "No engine (two-player)"
	if p.session.AIEnabled() {
		opponent = "vs " + p.engineName
	}
	p.drawText(screen, opponent, x, statusY, textSecondary)

	statusColor := textPrimary
	switch {
	case p.session.State() == play.GameOver:
		statusColor = statusGameOver
	case p.session.Thinking():
		statusColor = statusThinking
	}
	p.drawText(screen, p.session.StatusText(), x, statusY+22, statusColor)

	if notice := p.session.Notice(); notice != "" {
		p.drawText(screen, notice, x, statusY+44, noticeColor)
	}
}

func (p *Panel) drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

func (p *Panel) drawTextCentered(screen *ebiten.Image, s string, centerX, centerY int, c color.Color) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	w, h := MeasureText(s, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(centerX)-w/2, float64(centerY)-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}
