package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultName = "Default"
	CustomName  = "Custom"

	FontModern  = "modern"
	FontClassic = "classic"
	FontPlayful = "playful"

	slate100 = "F1F5F9"
	slate800 = "1E293B"
)

var ErrInvalidColor = errors.New("invalid theme color")

// Theme is the resolved palette for one deck. Colors are 6-char hex without '#'.
type Theme struct {
	Name      string `json:"name"`
	Bg        string `json:"bg"`
	Accent1   string `json:"accent1"`
	Accent2   string `json:"accent2"`
	TextColor string `json:"textColor"`
	CardBg    string `json:"cardBg"`
	IsDark    bool   `json:"isDark"`
	FontStyle string `json:"fontStyle"`
}

// Raw is the partial theme object produced by the content generator or a client.
type Raw struct {
	Name      string `json:"name,omitempty"`
	Bg        string `json:"bg,omitempty"`
	Accent1   string `json:"accent1,omitempty"`
	Accent2   string `json:"accent2,omitempty"`
	TextColor string `json:"textColor,omitempty"`
	CardBg    string `json:"cardBg,omitempty"`
	IsDark    *bool  `json:"isDark,omitempty"`
	FontStyle string `json:"fontStyle,omitempty"`
}

type Fonts struct {
	Heading string
	Body    string
}

func Default() Theme {
	return Theme{
		Name:      DefaultName,
		Bg:        "0F172A",
		Accent1:   "3B82F6",
		Accent2:   "8B5CF6",
		TextColor: slate100,
		CardBg:    slate800,
		IsDark:    true,
		FontStyle: FontModern,
	}
}

// Resolve merges a partial theme with the defaults. A theme without bg or
// accent1 is discarded in favor of Default. Malformed hex passes through.
func Resolve(raw *Raw) Theme {
	if raw == nil {
		return Default()
	}

	bg := stripMarker(raw.Bg)
	accent1 := stripMarker(raw.Accent1)
	if bg == "" || accent1 == "" {
		return Default()
	}

	isDark := raw.IsDark == nil || *raw.IsDark

	t := Theme{
		Name:      raw.Name,
		Bg:        bg,
		Accent1:   accent1,
		Accent2:   stripMarker(raw.Accent2),
		TextColor: stripMarker(raw.TextColor),
		CardBg:    stripMarker(raw.CardBg),
		IsDark:    isDark,
		FontStyle: raw.FontStyle,
	}
	if t.Name == "" {
		t.Name = CustomName
	}
	if t.Accent2 == "" {
		t.Accent2 = accent1
	}
	if t.TextColor == "" {
		t.TextColor = pick(isDark, slate100, slate800)
	}
	if t.CardBg == "" {
		t.CardBg = pick(isDark, slate800, slate100)
	}
	if t.FontStyle == "" {
		t.FontStyle = FontModern
	}
	return t
}

// Raw converts a resolved theme back to its partial form.
func (t Theme) Raw() *Raw {
	isDark := t.IsDark
	return &Raw{
		Name:      t.Name,
		Bg:        t.Bg,
		Accent1:   t.Accent1,
		Accent2:   t.Accent2,
		TextColor: t.TextColor,
		CardBg:    t.CardBg,
		IsDark:    &isDark,
		FontStyle: t.FontStyle,
	}
}

// Validate reports the first color field that is not a 6-digit hex value.
func Validate(t Theme) error {
	fields := []struct {
		name  string
		value string
	}{
		{"bg", t.Bg},
		{"accent1", t.Accent1},
		{"accent2", t.Accent2},
		{"textColor", t.TextColor},
		{"cardBg", t.CardBg},
	}
	for _, f := range fields {
		if _, ok := parseHex(f.value); !ok {
			return fmt.Errorf("%w: %s=%q", ErrInvalidColor, f.name, f.value)
		}
	}
	return nil
}

func FontsFor(style string) Fonts {
	switch style {
	case FontClassic:
		return Fonts{Heading: "Cambria", Body: "Garamond"}
	case FontPlayful:
		return Fonts{Heading: "Trebuchet MS", Body: "Verdana"}
	default:
		return Fonts{Heading: "Segoe UI", Body: "Calibri"}
	}
}

func stripMarker(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "#")
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func parseHex(hex string) (colorful.Color, bool) {
	if len(hex) != 6 {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}
