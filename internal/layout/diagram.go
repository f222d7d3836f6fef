package layout

import (
	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/theme"
	"github.com/ChaseRain/deckgen/internal/viewport"
)

// maxDiagramScale caps how far a small graph is enlarged on the slide.
const maxDiagramScale = 2.5

var diagramCanvas = draw.Rect{X: 72, Y: 172, W: 1776, H: 720}

func (f *frame) diagram(s deck.DiagramSlide) {
	f.chrome(s.Title, false)

	canvasFill := "FFFFFF"
	if f.th.IsDark {
		canvasFill = theme.Adjust(f.th.Bg, 8)
	}
	f.add(draw.Command{
		Kind:   draw.KindRoundRect,
		Role:   draw.RoleDiagramCanvas,
		Bounds: diagramCanvas,
		Radius: cardRadius,
		Fill:   draw.Solid(canvasFill),
		Stroke: &draw.Stroke{Color: theme.Adjust(f.th.Bg, f.pick(20, -15)), Width: 2},
	})

	if len(s.Diagram.Nodes) > 0 {
		g := Diagram(s.Diagram.Nodes, s.Diagram.Connections, f.th, f.compact)
		f.add(PlaceGraph(g, diagramCanvas, 40)...)
	}

	if caption := s.Line(0); caption != "" {
		font := f.bodyFont(24)
		font.Italic = true
		font.Color = f.mutedColor()
		f.add(draw.Label(draw.RoleCaption,
			draw.Rect{X: marginX, Y: diagramCanvas.Y + diagramCanvas.H + 8, W: contentW, H: 44}, caption, font, draw.AlignCenter))
	}

	f.finish()
}

// PlaceGraph scales a graph to fit region minus padding, capped at
// maxDiagramScale, and centers it.
func PlaceGraph(g Graph, region draw.Rect, padding float64) []draw.Command {
	if g.Width <= 0 || g.Height <= 0 {
		return nil
	}
	fit := viewport.Place(region.W, region.H, 2*padding, g.Width, g.Height)
	s := min(fit.Scale, maxDiagramScale)
	dx := region.X + (region.W-g.Width*s)/2
	dy := region.Y + (region.H-g.Height*s)/2
	return draw.Transform(g.Commands, s, dx, dy)
}
