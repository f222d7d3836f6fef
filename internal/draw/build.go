package draw

func Solid(color string) *Fill {
	return &Fill{Color: color}
}

func Tint(color string, opacity float64) *Fill {
	return &Fill{Color: color, Opacity: opacity}
}

func Gradient(from, to string, angle float64) *Fill {
	return &Fill{Color: from, GradientTo: to, GradientAngle: angle}
}

func Line(role Role, from, to Point, stroke Stroke) Command {
	return Command{
		Kind:   KindLine,
		Role:   role,
		Bounds: boundsOf([]Point{from, to}),
		Points: []Point{from, to},
		Stroke: &stroke,
	}
}

func Polygon(role Role, shape Shape, pts []Point, fill *Fill) Command {
	return Command{
		Kind:   KindPolygon,
		Role:   role,
		Shape:  shape,
		Bounds: boundsOf(pts),
		Points: pts,
		Fill:   fill,
	}
}

func Label(role Role, r Rect, text string, font Font, align Align) Command {
	return Command{
		Kind:   KindText,
		Role:   role,
		Bounds: r,
		Text:   text,
		Font:   &font,
		Align:  align,
		VAlign: VAlignMiddle,
	}
}

// Transform maps commands into a frame scaled by scale and shifted by (dx, dy).
// Stroke widths, dash lengths, radii, blur and font sizes scale with geometry.
// The input slice is not modified.
func Transform(cmds []Command, scale, dx, dy float64) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		c.Bounds = Rect{
			X: c.Bounds.X*scale + dx,
			Y: c.Bounds.Y*scale + dy,
			W: c.Bounds.W * scale,
			H: c.Bounds.H * scale,
		}
		if c.Points != nil {
			pts := make([]Point, len(c.Points))
			for j, p := range c.Points {
				pts[j] = Point{X: p.X*scale + dx, Y: p.Y*scale + dy}
			}
			c.Points = pts
		}
		c.Radius *= scale
		c.Blur *= scale
		if c.Stroke != nil {
			s := *c.Stroke
			s.Width *= scale
			if s.Dash != nil {
				dash := make([]float64, len(s.Dash))
				for j, d := range s.Dash {
					dash[j] = d * scale
				}
				s.Dash = dash
			}
			c.Stroke = &s
		}
		if c.Font != nil {
			f := *c.Font
			f.Size *= scale
			c.Font = &f
		}
		if c.Fill != nil {
			f := *c.Fill
			c.Fill = &f
		}
		out[i] = c
	}
	return out
}

func boundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY, maxX, maxY := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
