package layout

import (
	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/theme"
)

const (
	columnW       = 840.0
	columnH       = 740.0
	columnHeaderH = 100.0
	versusSize    = 120.0
)

func (f *frame) comparison(s deck.ComparisonSlide) {
	if s.ImageRef != "" {
		f.background()
		f.backdrop(s.ImageRef, black, 0.6)
		f.titleBar(s.Title)
	} else {
		f.chrome(s.Title, true)
	}

	cols := s.Columns
	if len(cols) > deck.MaxColumns {
		cols = cols[:deck.MaxColumns]
	}
	cardOpacity := 1.0
	if s.ImageRef != "" {
		cardOpacity = 0.92
	}

	switch len(cols) {
	case 1:
		f.column(draw.Rect{X: marginX, Y: contentTop, W: contentW, H: columnH}, cols[0], f.th.Accent1, cardOpacity)
	case 2:
		left := draw.Rect{X: marginX, Y: contentTop, W: columnW, H: columnH}
		right := draw.Rect{X: canvasW - marginX - columnW, Y: contentTop, W: columnW, H: columnH}
		f.column(left, cols[0], f.th.Accent1, cardOpacity)
		f.column(right, cols[1], f.th.Accent2, cardOpacity)

		mid := canvasW / 2
		vs := draw.Rect{X: mid - versusSize/2, Y: contentTop + columnH/2 - versusSize/2, W: versusSize, H: versusSize}
		f.add(
			draw.Command{
				Kind:   draw.KindRect,
				Role:   draw.RoleDivider,
				Bounds: draw.Rect{X: mid - 2, Y: contentTop, W: 4, H: columnH},
				Fill:   draw.Solid(theme.Adjust(f.th.Bg, f.pick(15, -10))),
			},
			draw.Command{
				Kind:   draw.KindEllipse,
				Role:   draw.RoleVersus,
				Bounds: vs,
				Fill:   draw.Gradient(f.th.Accent1, f.th.Accent2, 45),
				Stroke: &draw.Stroke{Color: f.th.Bg, Width: 6},
				Shadow: true,
			},
			draw.Label(draw.RoleVersus, vs, "VS", f.headingFont(36, white), draw.AlignCenter),
		)
	}

	f.finish()
}

func (f *frame) column(r draw.Rect, col deck.Column, accent string, opacity float64) {
	header := draw.Rect{X: r.X, Y: r.Y, W: r.W, H: columnHeaderH}
	f.add(
		f.card(draw.RoleColumn, r, opacity),
		draw.Command{
			Kind:   draw.KindRoundRect,
			Role:   draw.RoleColumnHeader,
			Bounds: header,
			Radius: cardRadius,
			Fill:   draw.Tint(accent, 0.18),
		},
		draw.Label(draw.RoleColumnHeader, draw.Rect{X: r.X + 32, Y: r.Y, W: r.W - 64, H: columnHeaderH}, col.Title,
			f.headingFont(36, accent), draw.AlignLeft),
	)

	points := col.Points
	if len(points) > deck.MaxColumnPoints {
		points = points[:deck.MaxColumnPoints]
	}
	if len(points) == 0 {
		return
	}
	top := r.Y + columnHeaderH + 30
	lineH := min(bulletMaxLineH, (r.Y+r.H-top-24)/float64(len(points)))
	for i, p := range points {
		y := top + float64(i)*lineH
		f.add(
			f.dot(r.X+48, y+lineH/2, 12, accent),
			draw.Label(draw.RoleBody, draw.Rect{X: r.X + 72, Y: y, W: r.W - 104, H: lineH}, p, f.bodyFont(26), draw.AlignLeft),
		)
	}
}
