package layout

import (
	"math"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
)

const (
	statsImageShare = 0.3
	statCardH       = 360.0
	statRowGap      = 48.0
	statStripeH     = 8.0
)

// statCardWidth is the card width for a single centered row of n cards.
func statCardWidth(n int) float64 {
	switch {
	case n <= 2:
		return 700
	case n == 3:
		return 500
	default:
		return 390
	}
}

func (f *frame) stats(s deck.StatsSlide) {
	f.chrome(s.Title, s.ImageRef == "")

	top := contentTop + 26
	if ctx := s.Line(0); ctx != "" {
		areaW := contentW
		if s.ImageRef != "" {
			areaW = contentW - math.Round(canvasW*statsImageShare) - gutter
		}
		font := f.bodyFont(26)
		font.Color = f.mutedColor()
		f.add(draw.Label(draw.RoleBody, draw.Rect{X: marginX, Y: contentTop, W: areaW, H: 72}, ctx, font, draw.AlignLeft))
		top = contentTop + 96
	}

	items := s.Stats
	if len(items) > deck.MaxStats {
		items = items[:deck.MaxStats]
	}

	if s.ImageRef != "" {
		imgW := math.Round(canvasW * statsImageShare)
		gridW := contentW - imgW - gutter
		f.image(draw.Rect{X: marginX + gridW + gutter, Y: contentTop, W: imgW, H: contentH}, s.ImageRef)

		cw := (gridW - gutter) / 2
		ch := (contentBottom - top - gutter) / 2
		for i, st := range items {
			col, row := i%2, i/2
			f.statCard(draw.Rect{X: marginX + float64(col)*(cw+gutter), Y: top + float64(row)*(ch+gutter), W: cw, H: ch}, st)
		}
	} else if n := len(items); n > 0 {
		cw := statCardWidth(n)
		total := float64(n)*cw + float64(n-1)*statRowGap
		x := (canvasW - total) / 2
		y := top + (contentBottom-top-statCardH)/2
		for i, st := range items {
			f.statCard(draw.Rect{X: x + float64(i)*(cw+statRowGap), Y: y, W: cw, H: statCardH}, st)
		}
	}

	f.finish()
}

func (f *frame) statCard(r draw.Rect, st deck.Stat) {
	f.add(
		f.card(draw.RoleStatCard, r, 1),
		draw.Command{
			Kind:   draw.KindRect,
			Role:   draw.RoleStatStripe,
			Bounds: draw.Rect{X: r.X + cardRadius, Y: r.Y, W: r.W - 2*cardRadius, H: statStripeH},
			Fill:   draw.Gradient(f.th.Accent1, f.th.Accent2, 0),
		},
		draw.Label(draw.RoleStatValue, draw.Rect{X: r.X + 16, Y: r.Y + r.H*0.18, W: r.W - 32, H: r.H * 0.4}, st.Value,
			f.headingFont(72, f.th.Accent1), draw.AlignCenter),
		draw.Label(draw.RoleStatLabel, draw.Rect{X: r.X + 24, Y: r.Y + r.H*0.6, W: r.W - 48, H: r.H * 0.3}, st.Label,
			f.bodyFont(24), draw.AlignCenter),
	)
}
