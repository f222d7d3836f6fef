package layout

import (
	"strings"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/theme"
)

// orb is a soft blurred circle used on full-bleed slides.
func orb(r draw.Rect, color string, opacity, blur float64) draw.Command {
	return draw.Command{Kind: draw.KindEllipse, Role: draw.RoleDecoration, Bounds: r, Fill: draw.Tint(color, opacity), Blur: blur}
}

func (f *frame) section(s deck.SectionSlide) {
	if s.ImageRef != "" {
		f.background()
		f.backdrop(s.ImageRef, f.th.Accent1, 0.75)
	} else {
		f.add(
			draw.Command{
				Kind:   draw.KindRect,
				Role:   draw.RoleBackground,
				Bounds: draw.Rect{W: canvasW, H: canvasH},
				Fill:   draw.Gradient(f.th.Accent1, f.th.Accent2, 45),
			},
			orb(draw.Rect{X: 1400, Y: -200, W: 700, H: 700}, white, 0.10, 60),
			orb(draw.Rect{X: -200, Y: 600, W: 600, H: 600}, f.th.Bg, 0.20, 60),
		)
	}

	f.add(draw.Label(draw.RoleTitle, draw.Rect{X: 160, Y: 360, W: 1600, H: 180}, s.Title,
		f.headingFont(84, white), draw.AlignCenter))
	f.add(draw.Command{
		Kind:   draw.KindRect,
		Role:   draw.RoleDivider,
		Bounds: draw.Rect{X: canvasW/2 - 60, Y: 560, W: 120, H: 6},
		Fill:   draw.Tint(white, 0.8),
	})
	if sub := s.Line(0); sub != "" {
		font := draw.Font{Family: f.fonts.Body, Size: 32, Color: "F1F5F9"}
		f.add(draw.Label(draw.RoleSubtitle, draw.Rect{X: 260, Y: 600, W: 1400, H: 90}, sub, font, draw.AlignCenter))
	}
}

func (f *frame) titleSlide(s deck.TitleSlide) {
	f.add(
		draw.Command{
			Kind:   draw.KindRect,
			Role:   draw.RoleBackground,
			Bounds: draw.Rect{W: canvasW, H: canvasH},
			Fill:   draw.Gradient(f.th.Accent1, f.th.Accent2, 135),
		},
		orb(draw.Rect{X: 1300, Y: -300, W: 900, H: 900}, white, 0.08, 40),
		orb(draw.Rect{X: -250, Y: 650, W: 700, H: 700}, white, 0.06, 40),
		orb(draw.Rect{X: 1500, Y: 800, W: 360, H: 360}, theme.Adjust(f.th.Accent2, 20), 0.10, 40),
	)
	if s.ImageRef != "" {
		f.backdrop(s.ImageRef, f.th.Bg, 0.55)
	}

	f.add(
		draw.Label(draw.RoleTitle, draw.Rect{X: 160, Y: 360, W: 1600, H: 220}, s.Title,
			f.headingFont(96, white), draw.AlignCenter),
		draw.Command{
			Kind:   draw.KindRect,
			Role:   draw.RoleDivider,
			Bounds: draw.Rect{X: canvasW/2 - 80, Y: 600, W: 160, H: 6},
			Fill:   draw.Solid(white),
		},
	)
	if sub := s.Line(0); sub != "" {
		font := draw.Font{Family: f.fonts.Body, Size: 28, Color: "F1F5F9"}
		f.add(draw.Label(draw.RoleSubtitle, draw.Rect{X: 160, Y: 630, W: 1600, H: 60}, strings.ToUpper(sub), font, draw.AlignCenter))
	}
}
