package layout

import (
	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/theme"
)

// DecorationPattern selects one of the fixed background ornament sets.
type DecorationPattern int

const (
	PatternCorners DecorationPattern = iota
	PatternSideBand
	PatternTriangle
	PatternRail
	PatternCluster

	patternCount
)

type accent int

const (
	accent1 accent = iota + 1
	accent2
)

type ornament struct {
	kind    draw.Kind
	shape   draw.Shape
	bounds  draw.Rect
	accent  accent
	opacity float64
}

var decorationPatterns = map[DecorationPattern][]ornament{
	PatternCorners: {
		{kind: draw.KindEllipse, bounds: draw.Rect{X: 1500, Y: -150, W: 560, H: 560}, accent: accent1, opacity: 0.12},
		{kind: draw.KindEllipse, bounds: draw.Rect{X: -230, Y: 790, W: 480, H: 480}, accent: accent2, opacity: 0.12},
	},
	PatternSideBand: {
		{kind: draw.KindRect, bounds: draw.Rect{X: 1728, Y: 0, W: 192, H: 1080}, accent: accent1, opacity: 0.08},
		{kind: draw.KindEllipse, bounds: draw.Rect{X: -115, Y: -115, W: 345, H: 345}, accent: accent2, opacity: 0.10},
	},
	PatternTriangle: {
		{kind: draw.KindPolygon, shape: draw.ShapeRightTriangle, bounds: draw.Rect{X: -96, Y: -96, W: 422, H: 422}, accent: accent1, opacity: 0.12},
		{kind: draw.KindEllipse, bounds: draw.Rect{X: 1536, Y: 720, W: 384, H: 384}, accent: accent2, opacity: 0.10},
	},
	PatternRail: {
		{kind: draw.KindRect, bounds: draw.Rect{X: 0, Y: 0, W: 24, H: 1080}, accent: accent1, opacity: 1},
		{kind: draw.KindEllipse, bounds: draw.Rect{X: 1536, Y: 72, W: 307, H: 307}, accent: accent2, opacity: 0.15},
		{kind: draw.KindEllipse, bounds: draw.Rect{X: 1632, Y: 750, W: 192, H: 192}, accent: accent1, opacity: 0.12},
	},
	PatternCluster: {
		{kind: draw.KindEllipse, bounds: draw.Rect{X: 1440, Y: -216, W: 768, H: 768}, accent: accent1, opacity: 0.08},
		{kind: draw.KindEllipse, bounds: draw.Rect{X: 1574, Y: 29, W: 480, H: 480}, accent: accent2, opacity: 0.10},
		{kind: draw.KindEllipse, bounds: draw.Rect{X: -288, Y: 576, W: 576, H: 576}, accent: accent1, opacity: 0.07},
	},
}

// PatternFor maps a slide index onto the decoration cycle.
func PatternFor(index int) DecorationPattern {
	p := index % int(patternCount)
	if p < 0 {
		p += int(patternCount)
	}
	return DecorationPattern(p)
}

// Decorations returns the ornaments for the slide at index.
func Decorations(index int, th theme.Theme) []draw.Command {
	set := decorationPatterns[PatternFor(index)]
	out := make([]draw.Command, 0, len(set))
	for _, o := range set {
		color := th.Accent1
		if o.accent == accent2 {
			color = th.Accent2
		}
		fill := draw.Tint(color, o.opacity)

		if o.kind == draw.KindPolygon {
			b := o.bounds
			// right angle at the top-left corner
			pts := []draw.Point{{X: b.X, Y: b.Y}, {X: b.X + b.W, Y: b.Y}, {X: b.X, Y: b.Y + b.H}}
			c := draw.Polygon(draw.RoleDecoration, o.shape, pts, fill)
			out = append(out, c)
			continue
		}
		out = append(out, draw.Command{Kind: o.kind, Role: draw.RoleDecoration, Bounds: o.bounds, Fill: fill})
	}
	return out
}
