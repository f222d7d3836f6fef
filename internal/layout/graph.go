package layout

import (
	"math"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/theme"
)

// graphPreset holds the grid metrics for one density.
type graphPreset struct {
	gapX, gapY     float64
	nodeW, nodeH   float64
	startX, startY float64
	fontSize       float64
	labelSize      float64
	strokeW        float64
	dash           []float64
}

var (
	compactGraph = graphPreset{
		gapX: 80, gapY: 55,
		nodeW: 70, nodeH: 30,
		startX: 10, startY: 8,
		fontSize: 7, labelSize: 6, strokeW: 1,
		dash: []float64{3, 2},
	}
	fullGraph = graphPreset{
		gapX: 160, gapY: 100,
		nodeW: 140, nodeH: 50,
		startX: 30, startY: 20,
		fontSize: 12, labelSize: 10, strokeW: 2,
		dash: []float64{6, 4},
	}
)

// straightThreshold is the center-y difference under which a connector is
// treated as horizontal.
const straightThreshold = 10.0

type nodeStyle struct {
	kind  draw.Kind
	shape draw.Shape
	color func(theme.Theme) string
}

func fixed(hex string) func(theme.Theme) string {
	return func(theme.Theme) string { return hex }
}

var nodeStyles = map[deck.NodeType]nodeStyle{
	deck.NodeStart:    {kind: draw.KindEllipse, color: fixed("10B981")},
	deck.NodeEnd:      {kind: draw.KindEllipse, color: fixed("EF4444")},
	deck.NodeDecision: {kind: draw.KindPolygon, shape: draw.ShapeDiamond, color: fixed("F59E0B")},
	deck.NodeData:     {kind: draw.KindPolygon, shape: draw.ShapeParallelogram, color: func(t theme.Theme) string { return t.Accent2 }},
	deck.NodeProcess:  {kind: draw.KindRoundRect, color: func(t theme.Theme) string { return t.Accent1 }},
}

func styleFor(t deck.NodeType) nodeStyle {
	if s, ok := nodeStyles[t]; ok {
		return s
	}
	return nodeStyles[deck.NodeProcess]
}

// Graph is a laid-out diagram in its own coordinate space starting at (0, 0).
type Graph struct {
	Width    float64
	Height   float64
	Columns  int
	Rows     int
	Commands []draw.Command
}

// Cell returns the grid column and row of node i.
func Cell(i, columns int) (col, row int) {
	return i % columns, i / columns
}

// Diagram places nodes on a grid of at most four columns in input order and
// joins them with straight dashed connectors. Connectors that reference a
// missing node, or join a node to itself, are skipped. When ids repeat, the
// last node with the id is the connector endpoint.
func Diagram(nodes []deck.Node, conns []deck.Connection, th theme.Theme, compact bool) Graph {
	n := len(nodes)
	if n == 0 {
		return Graph{}
	}
	p := fullGraph
	if compact {
		p = compactGraph
	}

	cols := min(n, deck.MaxDiagramColumns)
	rows := int(math.Ceil(float64(n) / float64(cols)))
	g := Graph{
		Width:   p.startX*2 + float64(cols)*p.gapX,
		Height:  p.startY*2 + float64(rows)*p.gapY,
		Columns: cols,
		Rows:    rows,
	}

	boxes := make([]draw.Rect, n)
	byID := make(map[string]draw.Rect, n)
	for i, node := range nodes {
		col, row := Cell(i, cols)
		boxes[i] = draw.Rect{X: p.startX + float64(col)*p.gapX, Y: p.startY + float64(row)*p.gapY, W: p.nodeW, H: p.nodeH}
		byID[node.ID] = boxes[i]
	}

	var labels []draw.Command
	connColor := th.TextColor
	for _, c := range conns {
		a, okA := byID[c.From]
		b, okB := byID[c.To]
		if !okA || !okB {
			continue
		}
		from, to, horizontal := connectorEnds(a, b)
		line := draw.Line(draw.RoleConnector, from, to, draw.Stroke{
			Color:   connColor,
			Width:   p.strokeW,
			Opacity: 0.7,
			Dash:    append([]float64(nil), p.dash...),
		})
		line.Arrow = true
		g.Commands = append(g.Commands, line)
		if c.Label != "" {
			labels = append(labels, connectorLabel(c.Label, from, to, horizontal, p, th))
		}
	}

	outline := black
	if th.IsDark {
		outline = white
	}
	for i, node := range nodes {
		st := styleFor(node.Type)
		box := boxes[i]
		fill := draw.Solid(st.color(th))
		stroke := &draw.Stroke{Color: outline, Width: 1, Opacity: 0.4}

		var shape draw.Command
		switch st.kind {
		case draw.KindPolygon:
			shape = draw.Polygon(draw.RoleNode, st.shape, polygonPoints(st.shape, box), fill)
			shape.Stroke = stroke
		default:
			shape = draw.Command{Kind: st.kind, Role: draw.RoleNode, Bounds: box, Fill: fill, Stroke: stroke}
			if st.kind == draw.KindRoundRect {
				shape.Radius = p.nodeH / 5
			}
		}
		label := node.Label
		if label == "" {
			label = node.ID
		}
		g.Commands = append(g.Commands,
			shape,
			draw.Label(draw.RoleNodeLabel, box, label,
				draw.Font{Size: p.fontSize, Bold: true, Color: white}, draw.AlignCenter),
		)
	}

	g.Commands = append(g.Commands, labels...)
	return g
}

// connectorEnds picks the facing edge midpoints of two node boxes.
func connectorEnds(a, b draw.Rect) (from, to draw.Point, horizontal bool) {
	ax, ay := a.CenterX(), a.CenterY()
	bx, by := b.CenterX(), b.CenterY()

	if math.Abs(by-ay) < straightThreshold {
		if bx >= ax {
			return draw.Point{X: a.X + a.W, Y: ay}, draw.Point{X: b.X, Y: by}, true
		}
		return draw.Point{X: a.X, Y: ay}, draw.Point{X: b.X + b.W, Y: by}, true
	}
	if by > ay {
		return draw.Point{X: ax, Y: a.Y + a.H}, draw.Point{X: bx, Y: b.Y}, false
	}
	return draw.Point{X: ax, Y: a.Y}, draw.Point{X: bx, Y: b.Y + b.H}, false
}

// connectorLabel sits at the line midpoint, above horizontal lines and to
// the right of vertical ones.
func connectorLabel(text string, from, to draw.Point, horizontal bool, p graphPreset, th theme.Theme) draw.Command {
	mx, my := (from.X+to.X)/2, (from.Y+to.Y)/2
	h := p.labelSize * 1.6
	w := p.gapX

	r := draw.Rect{X: mx + 5, Y: my - h/2, W: w, H: h}
	align := draw.AlignLeft
	if horizontal {
		r = draw.Rect{X: mx - w/2, Y: my - h - 2, W: w, H: h}
		align = draw.AlignCenter
	}
	return draw.Label(draw.RoleConnectorLabel, r, text,
		draw.Font{Size: p.labelSize, Italic: true, Color: th.Accent2}, align)
}

func polygonPoints(shape draw.Shape, r draw.Rect) []draw.Point {
	switch shape {
	case draw.ShapeDiamond:
		return []draw.Point{
			{X: r.CenterX(), Y: r.Y},
			{X: r.X + r.W, Y: r.CenterY()},
			{X: r.CenterX(), Y: r.Y + r.H},
			{X: r.X, Y: r.CenterY()},
		}
	case draw.ShapeParallelogram:
		skew := r.W * 0.15
		return []draw.Point{
			{X: r.X + skew, Y: r.Y},
			{X: r.X + r.W, Y: r.Y},
			{X: r.X + r.W - skew, Y: r.Y + r.H},
			{X: r.X, Y: r.Y + r.H},
		}
	default:
		return []draw.Point{
			{X: r.X, Y: r.Y},
			{X: r.X + r.W, Y: r.Y},
			{X: r.X + r.W, Y: r.Y + r.H},
			{X: r.X, Y: r.Y + r.H},
		}
	}
}
