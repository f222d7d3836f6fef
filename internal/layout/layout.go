// Package layout turns normalized slides into draw commands on the 1920x1080
// design canvas. Every function here is pure and safe for concurrent use.
package layout

import (
	"strconv"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/theme"
)

const (
	canvasW = draw.CanvasWidth
	canvasH = draw.CanvasHeight

	marginX       = 96.0
	contentW      = canvasW - 2*marginX
	contentTop    = 184.0
	contentBottom = 940.0
	contentH      = contentBottom - contentTop
	gutter        = 32.0

	titleBarH     = 140.0
	titleFontSize = 40.0

	badgeSize  = 64.0
	footerY    = 1040.0
	footerH    = canvasH - footerY
	cardRadius = 24.0

	white = "FFFFFF"
	black = "000000"
)

// Slide lays out one slide. index is the slide's position in the rendered
// deck and drives the badge number and the decoration pattern. A nil or
// unrecognized slide is laid out as bullets.
func Slide(s deck.Slide, th theme.Theme, index int, compact bool) []draw.Command {
	f := newFrame(th, index, compact)

	switch v := s.(type) {
	case deck.TitleSlide:
		f.titleSlide(v)
	case deck.SectionSlide:
		f.section(v)
	case deck.QuoteSlide:
		f.quote(v)
	case deck.StatsSlide:
		f.stats(v)
	case deck.ComparisonSlide:
		f.comparison(v)
	case deck.TimelineSlide:
		f.timeline(v)
	case deck.DiagramSlide:
		f.diagram(v)
	case deck.BulletsSlide:
		f.bullets(v.Base)
	default:
		var b deck.Base
		if s != nil {
			b = s.Common()
		}
		f.bullets(b)
	}
	return f.cmds
}

// frame accumulates the commands for one slide.
type frame struct {
	th      theme.Theme
	fonts   theme.Fonts
	index   int
	compact bool
	cmds    []draw.Command
}

func newFrame(th theme.Theme, index int, compact bool) *frame {
	return &frame{
		th:      th,
		fonts:   theme.FontsFor(th.FontStyle),
		index:   index,
		compact: compact,
		cmds:    make([]draw.Command, 0, 32),
	}
}

func (f *frame) add(cmds ...draw.Command) {
	f.cmds = append(f.cmds, cmds...)
}

func (f *frame) background() {
	f.add(draw.Command{
		Kind:   draw.KindRect,
		Role:   draw.RoleBackground,
		Bounds: draw.Rect{W: canvasW, H: canvasH},
		Fill:   draw.Solid(f.th.Bg),
	})
}

// backdrop paints a full-bleed image under a translucent overlay.
func (f *frame) backdrop(ref, overlay string, opacity float64) {
	full := draw.Rect{W: canvasW, H: canvasH}
	f.add(
		draw.Command{Kind: draw.KindImage, Role: draw.RoleImage, Bounds: full, ImageRef: ref},
		draw.Command{Kind: draw.KindRect, Role: draw.RoleOverlay, Bounds: full, Fill: draw.Tint(overlay, opacity)},
	)
}

func (f *frame) titleBar(title string) {
	f.add(
		draw.Command{
			Kind:   draw.KindRect,
			Role:   draw.RoleTitleBar,
			Bounds: draw.Rect{W: canvasW, H: titleBarH},
			Fill:   draw.Gradient(f.th.Accent1, theme.Adjust(f.th.Accent1, -15), 0),
		},
		draw.Label(draw.RoleTitle, draw.Rect{X: marginX, Y: 30, W: canvasW - 2*marginX - badgeSize, H: 80}, title,
			draw.Font{Family: f.fonts.Heading, Size: titleFontSize, Bold: true, Color: white}, draw.AlignLeft),
	)
}

func (f *frame) badge() {
	r := draw.Rect{X: canvasW - marginX/2 - badgeSize, Y: footerY - badgeSize - 12, W: badgeSize, H: badgeSize}
	f.add(
		draw.Command{Kind: draw.KindEllipse, Role: draw.RoleBadge, Bounds: r, Fill: draw.Solid(f.th.Accent1), Shadow: true},
		draw.Label(draw.RoleBadgeText, r, strconv.Itoa(f.index+1),
			draw.Font{Family: f.fonts.Body, Size: 24, Bold: true, Color: white}, draw.AlignCenter),
	)
}

func (f *frame) footer() {
	f.add(
		draw.Command{
			Kind:   draw.KindRect,
			Role:   draw.RoleFooter,
			Bounds: draw.Rect{Y: footerY, W: canvasW, H: footerH},
			Fill:   draw.Tint(f.th.Accent1, 0.07),
		},
		draw.Label(draw.RoleFooterText, draw.Rect{X: marginX, Y: footerY, W: 1200, H: footerH}, f.th.Name,
			draw.Font{Family: f.fonts.Body, Size: 16, Color: f.dividerColor()}, draw.AlignLeft),
	)
}

// card is a rounded panel in the theme's card color.
func (f *frame) card(role draw.Role, r draw.Rect, opacity float64) draw.Command {
	return draw.Command{
		Kind:   draw.KindRoundRect,
		Role:   role,
		Bounds: r,
		Radius: cardRadius,
		Fill:   draw.Tint(f.th.CardBg, opacity),
		Stroke: &draw.Stroke{Color: theme.Adjust(f.th.CardBg, f.pick(20, -20)), Width: 2},
		Shadow: true,
	}
}

func (f *frame) image(r draw.Rect, ref string) {
	f.add(draw.Command{Kind: draw.KindImage, Role: draw.RoleImage, Bounds: r, Radius: cardRadius, ImageRef: ref})
}

func (f *frame) bodyFont(size float64) draw.Font {
	return draw.Font{Family: f.fonts.Body, Size: size, Color: f.th.TextColor}
}

func (f *frame) headingFont(size float64, color string) draw.Font {
	return draw.Font{Family: f.fonts.Heading, Size: size, Bold: true, Color: color}
}

func (f *frame) mutedColor() string {
	return theme.Adjust(f.th.TextColor, f.pick(-25, 25))
}

func (f *frame) dividerColor() string {
	return theme.Adjust(f.th.Bg, f.pick(15, -15))
}

// pick selects the dark-theme or light-theme value.
func (f *frame) pick(dark, light float64) float64 {
	if f.th.IsDark {
		return dark
	}
	return light
}

// chrome emits the shared frame of a content slide: background, decorations,
// title bar and title. The badge and footer are added by finish.
func (f *frame) chrome(title string, decorate bool) {
	f.background()
	if decorate {
		f.add(Decorations(f.index, f.th)...)
	}
	f.titleBar(title)
}

func (f *frame) finish() {
	f.footer()
	f.badge()
}

func (f *frame) dot(cx, cy, size float64, color string) draw.Command {
	return draw.Command{
		Kind:   draw.KindEllipse,
		Role:   draw.RoleBullet,
		Bounds: draw.Rect{X: cx - size/2, Y: cy - size/2, W: size, H: size},
		Fill:   draw.Solid(color),
	}
}
