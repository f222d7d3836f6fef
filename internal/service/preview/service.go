package preview

import (
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/internal/theme"
	"github.com/ChaseRain/deckgen/internal/viewport"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

// Options describes the container the slide is fitted into. A zero Width or
// Height renders at the native design size.
type Options struct {
	Width   float64
	Height  float64
	Padding float64
}

type Service struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *Service {
	return &Service{logger: log}
}

// Render writes one slide as SVG, fitted and centered in the container.
func (s *Service) Render(w io.Writer, title string, cmds []draw.Command, opts Options) (viewport.Placement, error) {
	place := viewport.Placement{Scale: 1}
	outW, outH := draw.CanvasWidth, draw.CanvasHeight
	if opts.Width > 0 && opts.Height > 0 {
		place = viewport.Place(opts.Width, opts.Height, opts.Padding, draw.CanvasWidth, draw.CanvasHeight)
		outW, outH = opts.Width, opts.Height
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(round(outW), round(outH))
	if title != "" {
		canvas.Title(title)
	}

	defs := collectDefs(cmds)
	defs.write(canvas)

	canvas.Gtransform(fmt.Sprintf("translate(%s,%s) scale(%s)", num(place.OffsetX), num(place.OffsetY), num(place.Scale)))
	for i, c := range cmds {
		drawCommand(canvas, c, defs, i)
	}
	canvas.Gend()
	canvas.End()

	if ew.err != nil {
		return place, errors.Wrap(ew.err, errors.ErrCodeInternal, "failed to write preview")
	}
	s.logger.Debug("preview rendered", "commands", len(cmds), "scale", place.Scale)
	return place, nil
}

// defs tracks the shared gradient, filter and marker definitions.
type defs struct {
	gradients map[int]string
	blurs     map[float64]string
	markers   map[string]string
	cmds      []draw.Command
}

func collectDefs(cmds []draw.Command) *defs {
	d := &defs{
		gradients: map[int]string{},
		blurs:     map[float64]string{},
		markers:   map[string]string{},
		cmds:      cmds,
	}
	for i, c := range cmds {
		if c.Fill != nil && c.Fill.GradientTo != "" {
			d.gradients[i] = "grad" + strconv.Itoa(i)
		}
		if c.Blur > 0 {
			if _, ok := d.blurs[c.Blur]; !ok {
				d.blurs[c.Blur] = "blur" + strconv.Itoa(len(d.blurs))
			}
		}
		if c.Arrow && c.Stroke != nil {
			color := inkColor(c.Stroke.Color)
			if _, ok := d.markers[color]; !ok {
				d.markers[color] = "arrow-" + color
			}
		}
	}
	return d
}

func (d *defs) write(canvas *svg.SVG) {
	if len(d.gradients) == 0 && len(d.blurs) == 0 && len(d.markers) == 0 {
		return
	}
	canvas.Def()
	for _, i := range slices.Sorted(maps.Keys(d.gradients)) {
		id := d.gradients[i]
		f := d.cmds[i].Fill
		x1, y1, x2, y2 := gradientVector(f.GradientAngle)
		op := d.cmds[i].FillOpacity()
		canvas.LinearGradient(id, x1, y1, x2, y2, []svg.Offcolor{
			{Offset: 0, Color: "#" + fillColor(f.Color), Opacity: op},
			{Offset: 100, Color: "#" + fillColor(f.GradientTo), Opacity: op},
		})
	}
	for _, blur := range slices.Sorted(maps.Keys(d.blurs)) {
		id := d.blurs[blur]
		canvas.Filter(id, `x="-50%"`, `y="-50%"`, `width="200%"`, `height="200%"`)
		canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic"}, blur, blur)
		canvas.Fend()
	}
	for _, color := range slices.Sorted(maps.Keys(d.markers)) {
		id := d.markers[color]
		canvas.Marker(id, 5, 3, 6, 6, `orient="auto"`)
		canvas.Polygon([]int{0, 6, 0}, []int{0, 3, 6}, "fill:#"+color)
		canvas.MarkerEnd()
	}
	canvas.DefEnd()
}

func drawCommand(canvas *svg.SVG, c draw.Command, d *defs, i int) {
	b := c.Bounds
	style := shapeStyle(c, d, i)

	switch c.Kind {
	case draw.KindRect:
		canvas.Rect(round(b.X), round(b.Y), round(b.W), round(b.H), style)
	case draw.KindRoundRect:
		r := round(min(c.Radius, b.W/2, b.H/2))
		canvas.Roundrect(round(b.X), round(b.Y), round(b.W), round(b.H), r, r, style)
	case draw.KindEllipse:
		canvas.Ellipse(round(b.CenterX()), round(b.CenterY()), round(b.W/2), round(b.H/2), style)
	case draw.KindPolygon:
		xs := make([]int, len(c.Points))
		ys := make([]int, len(c.Points))
		for j, p := range c.Points {
			xs[j], ys[j] = round(p.X), round(p.Y)
		}
		canvas.Polygon(xs, ys, style)
	case draw.KindLine:
		if len(c.Points) < 2 {
			return
		}
		p0, p1 := c.Points[0], c.Points[1]
		canvas.Line(round(p0.X), round(p0.Y), round(p1.X), round(p1.Y), style)
	case draw.KindImage:
		if href, ok := imageHref(c.ImageRef); ok {
			canvas.Image(round(b.X), round(b.Y), round(b.W), round(b.H), href, `preserveAspectRatio="xMidYMid slice"`)
		}
	case draw.KindText:
		drawText(canvas, c)
	}
}

func shapeStyle(c draw.Command, d *defs, i int) string {
	var parts []string
	switch {
	case c.Fill == nil:
		parts = append(parts, "fill:none")
	case c.Fill.GradientTo != "":
		parts = append(parts, "fill:url(#"+d.gradients[i]+")")
	default:
		parts = append(parts, "fill:#"+fillColor(c.Fill.Color))
		if op := c.FillOpacity(); op < 1 {
			parts = append(parts, "fill-opacity:"+num(op))
		}
	}
	if st := c.Stroke; st != nil && st.Width > 0 {
		parts = append(parts, "stroke:#"+inkColor(st.Color), "stroke-width:"+num(st.Width))
		if op := c.StrokeOpacity(); op < 1 {
			parts = append(parts, "stroke-opacity:"+num(op))
		}
		if len(st.Dash) > 0 {
			dash := make([]string, len(st.Dash))
			for j, v := range st.Dash {
				dash[j] = num(v)
			}
			parts = append(parts, "stroke-dasharray:"+strings.Join(dash, ","))
		}
		if c.Arrow {
			parts = append(parts, "marker-end:url(#"+d.markers[inkColor(st.Color)]+")")
		}
	}
	if c.Blur > 0 {
		parts = append(parts, "filter:url(#"+d.blurs[c.Blur]+")")
	}
	return strings.Join(parts, ";")
}

const lineSpacing = 1.25

func drawText(canvas *svg.SVG, c draw.Command) {
	if c.Text == "" || c.Font == nil || c.Font.Size <= 0 {
		return
	}
	f := c.Font
	b := c.Bounds
	lines := wrap(c.Text, b.W, f.Size)
	lh := f.Size * lineSpacing
	maxLines := max(1, int(b.H/lh))
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = strings.TrimRight(lines[maxLines-1], " ") + "…"
	}

	x, anchor := b.X, "start"
	switch c.Align {
	case draw.AlignCenter:
		x, anchor = b.CenterX(), "middle"
	case draw.AlignRight:
		x, anchor = b.X+b.W, "end"
	}

	total := float64(len(lines)) * lh
	var y float64
	switch c.VAlign {
	case draw.VAlignTop:
		y = b.Y + f.Size
	case draw.VAlignBottom:
		y = b.Y + b.H - total + f.Size
	default:
		y = b.CenterY() - total/2 + f.Size*0.9
	}

	style := []string{
		"fill:#" + inkColor(f.Color),
		"font-size:" + num(f.Size) + "px",
		"text-anchor:" + anchor,
	}
	if family := fontFamily(f.Family); family != "" {
		style = append(style, "font-family:'"+family+"',sans-serif")
	}
	if f.Bold {
		style = append(style, "font-weight:bold")
	}
	if f.Italic {
		style = append(style, "font-style:italic")
	}
	joined := strings.Join(style, ";")
	for i, line := range lines {
		canvas.Text(round(x), round(y+float64(i)*lh), line, joined)
	}
}

// wrap breaks text into lines by an average glyph width estimate.
func wrap(text string, width, size float64) []string {
	perLine := max(1, int(width/(size*0.52)))
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > perLine {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return []string{text}
	}
	return lines
}

// gradientVector converts an angle into objectBoundingBox percentages.
func gradientVector(angle float64) (x1, y1, x2, y2 uint8) {
	rad := angle * math.Pi / 180
	dx, dy := 50*math.Cos(rad), 50*math.Sin(rad)
	pct := func(v float64) uint8 { return uint8(math.Round(max(0, min(100, v)))) }
	return pct(50 - dx), pct(50 - dy), pct(50 + dx), pct(50 + dy)
}

// Colors, refs and font names reach markup unescaped through svgo, so they
// are checked here.
var (
	fillFallback = theme.Default().Bg
	inkFallback  = theme.Default().TextColor
)

func fillColor(hex string) string { return theme.Hex(hex, fillFallback) }

func inkColor(hex string) string { return theme.Hex(hex, inkFallback) }

// imageHref accepts data:image, http(s) and root-relative references and
// escapes them for use in an attribute.
func imageHref(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
	case strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//"):
	default:
		return "", false
	}
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(ref)); err != nil {
		return "", false
	}
	return b.String(), true
}

func fontFamily(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-':
			return r
		}
		return -1
	}, name)
}

func round(v float64) int { return int(math.Round(v)) }

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
