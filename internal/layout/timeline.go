package layout

import (
	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/theme"
)

const (
	baselineX = 144.0
	baselineY = 600.0
	baselineW = canvasW - 2*baselineX
	baselineH = 8.0

	tickSize     = 36.0
	yearBadgeH   = 64.0
	eventH       = 130.0
	maxEventW    = 420.0
	maxYearBadge = 200.0
)

// MilestoneX is the horizontal center of milestone i of n.
func MilestoneX(i, n int) float64 {
	return baselineX + (float64(i)+0.5)*baselineW/float64(n)
}

func (f *frame) timeline(s deck.TimelineSlide) {
	if s.ImageRef != "" {
		f.background()
		f.backdrop(s.ImageRef, black, 0.6)
		f.titleBar(s.Title)
	} else {
		f.chrome(s.Title, true)
	}

	f.add(draw.Command{
		Kind:   draw.KindRect,
		Role:   draw.RoleBaseline,
		Bounds: draw.Rect{X: baselineX, Y: baselineY - baselineH/2, W: baselineW, H: baselineH},
		Fill:   draw.Gradient(f.th.Accent1, f.th.Accent2, 0),
		Radius: baselineH / 2,
	})

	items := s.Timeline
	if len(items) > deck.MaxMilestones {
		items = items[:deck.MaxMilestones]
	}
	n := len(items)
	if n == 0 {
		f.finish()
		return
	}

	colW := min(baselineW/float64(n)-16, maxEventW)
	badgeW := min(colW, maxYearBadge)
	tickStroke := f.th.Bg
	if f.th.IsDark {
		tickStroke = white
	}
	stemFill := theme.Adjust(f.th.Bg, f.pick(25, -20))

	for i, m := range items {
		cx := MilestoneX(i, n)
		accent := f.th.Accent1
		if i%2 == 1 {
			accent = f.th.Accent2
		}

		var stem, badge, event draw.Rect
		valign := draw.VAlignTop
		if i%2 == 0 {
			stem = draw.Rect{X: cx - 2, Y: 420, W: 4, H: baselineY - tickSize/2 - 420}
			badge = draw.Rect{X: cx - badgeW/2, Y: 340, W: badgeW, H: yearBadgeH}
			event = draw.Rect{X: cx - colW/2, Y: 200, W: colW, H: eventH}
			valign = draw.VAlignBottom
		} else {
			stem = draw.Rect{X: cx - 2, Y: baselineY + tickSize/2, W: 4, H: 770 - baselineY - tickSize/2}
			badge = draw.Rect{X: cx - badgeW/2, Y: 770, W: badgeW, H: yearBadgeH}
			event = draw.Rect{X: cx - colW/2, Y: 850, W: colW, H: eventH}
		}

		ev := draw.Label(draw.RoleEvent, event, m.Event, f.bodyFont(22), draw.AlignCenter)
		ev.VAlign = valign
		f.add(
			draw.Command{Kind: draw.KindRect, Role: draw.RoleStem, Bounds: stem, Fill: draw.Solid(stemFill)},
			draw.Command{
				Kind:   draw.KindEllipse,
				Role:   draw.RoleTick,
				Bounds: draw.Rect{X: cx - tickSize/2, Y: baselineY - tickSize/2, W: tickSize, H: tickSize},
				Fill:   draw.Solid(accent),
				Stroke: &draw.Stroke{Color: tickStroke, Width: 4},
			},
			draw.Command{
				Kind:   draw.KindRoundRect,
				Role:   draw.RoleYearBadge,
				Bounds: badge,
				Radius: yearBadgeH / 2,
				Fill:   draw.Solid(accent),
			},
			draw.Label(draw.RoleYearBadge, badge, m.Year, f.headingFont(28, white), draw.AlignCenter),
			ev,
		)
	}

	f.finish()
}
