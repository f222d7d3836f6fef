// Package draw defines the renderer-agnostic visual primitives produced by the
// layout engine. All geometry is in the 1920x1080 design canvas.
package draw

const (
	CanvasWidth  = 1920.0
	CanvasHeight = 1080.0
)

type Kind string

const (
	KindRect      Kind = "rect"
	KindRoundRect Kind = "roundRect"
	KindEllipse   Kind = "ellipse"
	KindPolygon   Kind = "polygon"
	KindLine      Kind = "line"
	KindText      Kind = "text"
	KindImage     Kind = "image"
)

// Role tags what a command represents so consumers can special-case it
// without inspecting geometry.
type Role string

const (
	RoleBackground     Role = "background"
	RoleOverlay        Role = "overlay"
	RoleDecoration     Role = "decoration"
	RoleTitleBar       Role = "title-bar"
	RoleTitle          Role = "title"
	RoleSubtitle       Role = "subtitle"
	RoleDivider        Role = "divider"
	RoleBadge          Role = "badge"
	RoleBadgeText      Role = "badge-text"
	RoleFooter         Role = "footer"
	RoleFooterText     Role = "footer-text"
	RoleCard           Role = "card"
	RoleBody           Role = "body"
	RoleBullet         Role = "bullet"
	RoleMore           Role = "more"
	RoleImage          Role = "image"
	RoleQuoteGlyph     Role = "quote-glyph"
	RoleAttribution    Role = "attribution"
	RoleStatCard       Role = "stat-card"
	RoleStatStripe     Role = "stat-stripe"
	RoleStatValue      Role = "stat-value"
	RoleStatLabel      Role = "stat-label"
	RoleColumn         Role = "column"
	RoleColumnHeader   Role = "column-header"
	RoleVersus         Role = "versus"
	RoleBaseline       Role = "baseline"
	RoleTick           Role = "timeline-tick"
	RoleStem           Role = "timeline-stem"
	RoleYearBadge      Role = "year-badge"
	RoleEvent          Role = "timeline-event"
	RoleDiagramCanvas  Role = "diagram-canvas"
	RoleNode           Role = "node"
	RoleNodeLabel      Role = "node-label"
	RoleConnector      Role = "connector"
	RoleConnectorLabel Role = "connector-label"
	RoleCaption        Role = "caption"
)

// Shape refines KindPolygon for consumers that map to preset geometries.
type Shape string

const (
	ShapeDiamond       Shape = "diamond"
	ShapeParallelogram Shape = "parallelogram"
	ShapeRightTriangle Shape = "rightTriangle"
)

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

type VAlign string

const (
	VAlignTop    VAlign = "top"
	VAlignMiddle VAlign = "middle"
	VAlignBottom VAlign = "bottom"
)

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) CenterX() float64 { return r.X + r.W/2 }
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Fill is a solid color or, when GradientTo is set, a linear gradient from
// Color to GradientTo at GradientAngle degrees (0 = left to right).
type Fill struct {
	Color         string  `json:"color,omitempty"`
	Opacity       float64 `json:"opacity,omitempty"`
	GradientTo    string  `json:"gradientTo,omitempty"`
	GradientAngle float64 `json:"gradientAngle,omitempty"`
}

type Stroke struct {
	Color   string    `json:"color,omitempty"`
	Width   float64   `json:"width,omitempty"`
	Opacity float64   `json:"opacity,omitempty"`
	Dash    []float64 `json:"dash,omitempty"`
}

type Font struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// Command is one immutable visual primitive. Lines use Points[0] and Points[1];
// polygons use Points; everything else uses Bounds. Text wraps inside Bounds.
type Command struct {
	Kind     Kind    `json:"kind"`
	Role     Role    `json:"role"`
	Bounds   Rect    `json:"bounds"`
	Points   []Point `json:"points,omitempty"`
	Shape    Shape   `json:"shape,omitempty"`
	Fill     *Fill   `json:"fill,omitempty"`
	Stroke   *Stroke `json:"stroke,omitempty"`
	Radius   float64 `json:"radius,omitempty"`
	Shadow   bool    `json:"shadow,omitempty"`
	Blur     float64 `json:"blur,omitempty"`
	Text     string  `json:"text,omitempty"`
	Font     *Font   `json:"font,omitempty"`
	Align    Align   `json:"align,omitempty"`
	VAlign   VAlign  `json:"valign,omitempty"`
	ImageRef string  `json:"imageRef,omitempty"`
	Arrow    bool    `json:"arrow,omitempty"`
}

// FillOpacity is the effective fill opacity; zero means opaque.
func (c Command) FillOpacity() float64 {
	if c.Fill == nil || c.Fill.Opacity == 0 {
		return 1
	}
	return c.Fill.Opacity
}

// StrokeOpacity is the effective stroke opacity; zero means opaque.
func (c Command) StrokeOpacity() float64 {
	if c.Stroke == nil || c.Stroke.Opacity == 0 {
		return 1
	}
	return c.Stroke.Opacity
}

// Count returns how many commands carry the given role.
func Count(cmds []Command, role Role) int {
	n := 0
	for _, c := range cmds {
		if c.Role == role {
			n++
		}
	}
	return n
}

// Filter returns the commands carrying the given role, in order.
func Filter(cmds []Command, role Role) []Command {
	var out []Command
	for _, c := range cmds {
		if c.Role == role {
			out = append(out, c)
		}
	}
	return out
}
