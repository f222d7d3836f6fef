package ppt

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"strings"

	goppt "github.com/VantageDataChat/GoPPT"

	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/internal/layout"
	"github.com/ChaseRain/deckgen/internal/theme"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

// 1920 design units span the 13.333in (12192000 EMU) widescreen slide.
const (
	emuPerUnit = 6350
	ptPerUnit  = 0.5
)

// ImageResolver turns an image reference into bytes and a MIME type.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) ([]byte, string, error)
}

type Service struct {
	images ImageResolver
	logger *logger.Logger
}

func New(images ImageResolver, log *logger.Logger) *Service {
	return &Service{
		images: images,
		logger: log,
	}
}

// Build turns laid-out pages into an in-memory presentation, one slide per page.
func (s *Service) Build(ctx context.Context, title string, th theme.Theme, pages []layout.Page) (*goppt.Presentation, error) {
	p := goppt.New()
	p.GetLayout().SetLayout(goppt.LayoutScreen16x9)
	props := p.GetDocumentProperties()
	props.Title = title
	props.Creator = "deckgen"

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slide := p.GetActiveSlide()
		if i > 0 {
			slide = p.CreateSlide()
		}
		s.drawPage(ctx, slide, page, th)
	}
	return p, nil
}

// Export renders pages to .pptx bytes.
func (s *Service) Export(ctx context.Context, title string, th theme.Theme, pages []layout.Page) ([]byte, error) {
	p, err := s.Build(ctx, title, th, pages)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePPTRender, "failed to build presentation")
	}

	w, err := goppt.NewWriter(p, goppt.WriterPowerPoint2007)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePPTRender, "failed to create pptx writer")
	}
	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePPTRender, "failed to write pptx")
	}

	s.logger.Info("pptx exported", "title", title, "slides", len(pages), "size_bytes", buf.Len())
	return buf.Bytes(), nil
}

// Thumbnail rasterizes a single page to PNG at the given pixel width.
func (s *Service) Thumbnail(ctx context.Context, th theme.Theme, page layout.Page, width int) ([]byte, error) {
	p, err := s.Build(ctx, "", th, []layout.Page{page})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePPTRender, "failed to build thumbnail slide")
	}

	opts := goppt.DefaultRenderOptions()
	if width > 0 {
		opts.Width = width
	}
	img, err := p.SlideToImage(0, opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePPTRender, "failed to rasterize slide")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePPTRender, "failed to encode thumbnail")
	}
	return buf.Bytes(), nil
}

func (s *Service) drawPage(ctx context.Context, slide *goppt.Slide, page layout.Page, th theme.Theme) {
	hasImage := false
	for _, c := range page.Commands {
		if c.Kind == draw.KindImage && c.Role == draw.RoleImage && c.Bounds.W >= draw.CanvasWidth {
			hasImage = true
		}
	}

	for _, c := range page.Commands {
		switch {
		case c.Role == draw.RoleBackground && c.Fill != nil:
			slide.SetBackground(fill(c.Fill, 1, th.Bg))
		case c.Role == draw.RoleOverlay && hasImage:
			// pptx fills here are opaque; a flattened overlay would hide the image
			continue
		default:
			s.drawCommand(ctx, slide, c, th.Bg)
		}
	}
	if page.Notes != "" {
		slide.SetNotes(page.Notes)
	}
}

func (s *Service) drawCommand(ctx context.Context, slide *goppt.Slide, c draw.Command, bg string) {
	switch c.Kind {
	case draw.KindRect, draw.KindRoundRect, draw.KindEllipse:
		shapeType := goppt.AutoShapeRectangle
		switch c.Kind {
		case draw.KindRoundRect:
			shapeType = goppt.AutoShapeRoundedRect
		case draw.KindEllipse:
			shapeType = goppt.AutoShapeEllipse
		}
		shape := slide.CreateAutoShape()
		shape.SetAutoShapeType(shapeType)
		place(&shape.BaseShape, c.Bounds)
		s.style(&shape.BaseShape, c, bg)
	case draw.KindPolygon:
		s.drawPolygon(slide, c, bg)
	case draw.KindLine:
		drawLine(slide, c, bg)
	case draw.KindText:
		drawText(slide, c)
	case draw.KindImage:
		s.drawImage(ctx, slide, c, bg)
	}
}

func (s *Service) style(b *goppt.BaseShape, c draw.Command, bg string) {
	b.SetName(string(c.Role))
	if c.Fill != nil {
		b.SetFill(fill(c.Fill, c.FillOpacity(), bg))
	}
	if st := c.Stroke; st != nil && st.Width > 0 {
		style := goppt.BorderSolid
		if len(st.Dash) > 0 {
			style = goppt.BorderDash
		}
		b.SetBorder(&goppt.Border{
			Style: style,
			Width: int(math.Round(st.Width * emuPerUnit)),
			Color: goppt.NewColor(theme.Blend(bg, st.Color, c.StrokeOpacity())),
		})
	}
	if c.Shadow {
		b.SetShadow(&goppt.Shadow{
			Visible:    true,
			Direction:  90,
			Distance:   3,
			BlurRadius: 8,
			Color:      goppt.NewColor("000000"),
			Alpha:      20,
		})
	}
}

// drawPolygon maps polygons onto the preset geometries they were built from.
func (s *Service) drawPolygon(slide *goppt.Slide, c draw.Command, bg string) {
	if len(c.Points) < 3 {
		return
	}
	r := bounds(c.Points)
	shape := slide.CreateAutoShape()
	place(&shape.BaseShape, r)

	switch c.Shape {
	case draw.ShapeDiamond:
		shape.SetAutoShapeType(goppt.AutoShapeDiamond)
	case draw.ShapeParallelogram:
		shape.SetAutoShapeType(goppt.AutoShapeParallelogram)
	case draw.ShapeRightTriangle:
		// the preset puts the right angle bottom-left; the first point is the right angle
		shape.SetAutoShapeType(goppt.AutoShapeRtTriangle)
		corner := c.Points[0]
		shape.SetFlipHorizontal(corner.X > r.CenterX())
		shape.SetFlipVertical(corner.Y < r.CenterY())
	default:
		shape.SetAutoShapeType(goppt.AutoShapeRectangle)
	}
	s.style(&shape.BaseShape, c, bg)
}

func drawLine(slide *goppt.Slide, c draw.Command, bg string) {
	if len(c.Points) < 2 || c.Stroke == nil {
		return
	}
	from, to := c.Points[0], c.Points[1]
	line := slide.CreateLineShape()
	line.SetName(string(c.Role))
	line.SetPosition(emu(min(from.X, to.X)), emu(min(from.Y, to.Y)))
	line.SetSize(emu(math.Abs(to.X-from.X)), emu(math.Abs(to.Y-from.Y)))
	line.SetFlipHorizontal(to.X < from.X)
	line.SetFlipVertical(to.Y < from.Y)

	line.SetLineColor(goppt.NewColor(theme.Blend(bg, c.Stroke.Color, c.StrokeOpacity())))
	line.SetLineWidth(max(1, int(math.Round(c.Stroke.Width*ptPerUnit))))
	if len(c.Stroke.Dash) > 0 {
		line.SetLineStyle(goppt.BorderDash)
	}
	if c.Arrow {
		line.SetTailEnd(&goppt.LineEnd{
			Type:   goppt.ArrowType("triangle"),
			Width:  goppt.ArrowSizeMed,
			Length: goppt.ArrowSizeMed,
		})
	}
}

func drawText(slide *goppt.Slide, c draw.Command) {
	if c.Text == "" || c.Font == nil {
		return
	}
	box := slide.CreateRichTextShape()
	place(&box.BaseShape, c.Bounds)
	box.SetName(string(c.Role))
	box.SetWordWrap(true)
	box.SetTextAnchor(anchor(c.VAlign))

	for i, line := range strings.Split(c.Text, "\n") {
		para := box.GetActiveParagraph()
		if i > 0 {
			para = box.CreateParagraph()
		}
		para.SetAlignment(goppt.NewAlignment().SetHorizontal(horizontal(c.Align)))
		font := para.CreateTextRun(line).GetFont()
		font.SetSize(max(1, int(math.Round(c.Font.Size*ptPerUnit)))).
			SetBold(c.Font.Bold).
			SetItalic(c.Font.Italic).
			SetColor(goppt.NewColor(c.Font.Color))
		if c.Font.Family != "" {
			font.SetName(c.Font.Family)
		}
	}
}

func (s *Service) drawImage(ctx context.Context, slide *goppt.Slide, c draw.Command, bg string) {
	var data []byte
	var mime string
	var err error = errors.New(errors.ErrCodeImageFetch, "no image resolver")
	if s.images != nil {
		data, mime, err = s.images.Resolve(ctx, c.ImageRef)
	}
	if err != nil {
		// 图片获取失败时使用占位面板
		s.logger.Warn("image unavailable, using placeholder", "ref", truncate(c.ImageRef, 80), "error", err)
		shape := slide.CreateAutoShape()
		shape.SetAutoShapeType(goppt.AutoShapeRectangle)
		place(&shape.BaseShape, c.Bounds)
		shape.SetName("image-placeholder")
		shape.SetFill(goppt.NewFill().SetSolid(goppt.NewColor(theme.Adjust(bg, 10))))
		return
	}

	pic := slide.CreateDrawingShape()
	pic.SetImageData(data, mime)
	place(&pic.BaseShape, c.Bounds)
	pic.SetName(string(c.Role))
}

func fill(f *draw.Fill, opacity float64, bg string) *goppt.Fill {
	from := goppt.NewColor(theme.Blend(bg, f.Color, opacity))
	if f.GradientTo == "" {
		return goppt.NewFill().SetSolid(from)
	}
	to := goppt.NewColor(theme.Blend(bg, f.GradientTo, opacity))
	return goppt.NewFill().SetGradientLinear(from, to, int(math.Round(f.GradientAngle)))
}

func place(b *goppt.BaseShape, r draw.Rect) {
	b.SetPosition(emu(r.X), emu(r.Y))
	b.SetSize(emu(max(r.W, 0)), emu(max(r.H, 0)))
}

func bounds(pts []draw.Point) draw.Rect {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return draw.Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

func anchor(v draw.VAlign) goppt.TextAnchorType {
	switch v {
	case draw.VAlignTop:
		return goppt.TextAnchorTop
	case draw.VAlignBottom:
		return goppt.TextAnchorBottom
	default:
		return goppt.TextAnchorMiddle
	}
}

func horizontal(a draw.Align) goppt.HorizontalAlignment {
	switch a {
	case draw.AlignCenter:
		return goppt.HorizontalCenter
	case draw.AlignRight:
		return goppt.HorizontalRight
	default:
		return goppt.HorizontalLeft
	}
}

func emu(v float64) int64 { return int64(math.Round(v * emuPerUnit)) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
