package layout

import (
	"fmt"
	"math"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
)

const (
	bulletImageShare = 0.4
	bulletPadX       = 48.0
	bulletPadY       = 40.0
	bulletMaxLineH   = 110.0
)

func (f *frame) bullets(b deck.Base) {
	f.chrome(b.Title, true)

	cardW := contentW
	if b.ImageRef != "" {
		imgW := math.Round(contentW * bulletImageShare)
		cardW = contentW - imgW - gutter
		f.image(draw.Rect{X: marginX + cardW + gutter, Y: contentTop, W: imgW, H: contentH}, b.ImageRef)
	}
	card := draw.Rect{X: marginX, Y: contentTop, W: cardW, H: contentH}
	f.add(f.card(draw.RoleCard, card, 1))

	lines := b.Content
	more := 0
	if f.compact && len(lines) > deck.MaxCompactBullets {
		more = len(lines) - deck.MaxCompactBullets
		lines = lines[:deck.MaxCompactBullets]
	}

	rows := len(lines)
	if more > 0 {
		rows++
	}
	if rows == 0 {
		f.finish()
		return
	}

	lineH := min(bulletMaxLineH, (card.H-2*bulletPadY)/float64(rows))
	size := 28.0
	if f.compact {
		size = 30
	}
	size = max(16, min(size, lineH*0.42))

	textX := card.X + bulletPadX + 32
	textW := card.W - 2*bulletPadX - 32
	for i, line := range lines {
		y := card.Y + bulletPadY + float64(i)*lineH
		f.add(
			f.dot(card.X+bulletPadX+8, y+lineH/2, 14, f.th.Accent1),
			draw.Label(draw.RoleBody, draw.Rect{X: textX, Y: y, W: textW, H: lineH}, line, f.bodyFont(size), draw.AlignLeft),
		)
	}
	if more > 0 {
		y := card.Y + bulletPadY + float64(len(lines))*lineH
		font := f.bodyFont(size * 0.8)
		font.Italic = true
		font.Color = f.mutedColor()
		f.add(draw.Label(draw.RoleMore, draw.Rect{X: textX, Y: y, W: textW, H: lineH}, fmt.Sprintf("+%d more", more), font, draw.AlignLeft))
	}

	f.finish()
}
