package layout

import (
	"math"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
)

const quoteImageShare = 0.3

func (f *frame) quote(s deck.QuoteSlide) {
	f.background()
	f.add(Decorations(f.index, f.th)...)

	textX, textW := 160.0, canvasW-320
	if s.ImageRef != "" {
		imgW := math.Round(canvasW * quoteImageShare)
		imgX := canvasW - marginX - imgW
		f.image(draw.Rect{X: imgX, Y: contentTop, W: imgW, H: contentH}, s.ImageRef)
		textX, textW = marginX, imgX-marginX-2*gutter
	}

	text := s.Line(0)
	if text == "" {
		text = s.Title
	}

	f.add(draw.Label(draw.RoleQuoteGlyph, draw.Rect{X: textX, Y: 150, W: 220, H: 220}, "“",
		draw.Font{Family: "Georgia", Size: 240, Bold: true, Color: f.th.Accent1}, draw.AlignLeft))

	font := f.bodyFont(44)
	font.Italic = true
	f.add(draw.Label(draw.RoleBody, draw.Rect{X: textX, Y: 360, W: textW, H: 320}, text, font, draw.AlignCenter))

	if by := s.Line(1); by != "" {
		cx := textX + textW/2
		attr := draw.Font{Family: f.fonts.Body, Size: 28, Color: f.mutedColor()}
		f.add(
			draw.Command{
				Kind:   draw.KindRect,
				Role:   draw.RoleDivider,
				Bounds: draw.Rect{X: cx - 60, Y: 720, W: 120, H: 4},
				Fill:   draw.Solid(f.th.Accent2),
			},
			draw.Label(draw.RoleAttribution, draw.Rect{X: textX, Y: 748, W: textW, H: 60}, by, attr, draw.AlignCenter),
		)
	}

	f.finish()
}
