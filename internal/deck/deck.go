package deck

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ChaseRain/deckgen/internal/theme"
)

// RawDeck is the loosely typed presentation JSON exchanged with the content
// generator and API clients.
type RawDeck struct {
	Title  string     `json:"title"`
	Mode   string     `json:"mode,omitempty"`
	Theme  *theme.Raw `json:"theme,omitempty"`
	Slides []RawSlide `json:"slides"`
}

type RawSlide struct {
	SlideType    string      `json:"slideType,omitempty"`
	Title        string      `json:"title"`
	Content      []string    `json:"content,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	ImageRef     string      `json:"imageRef,omitempty"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	ImageData    string      `json:"imageData,omitempty"`
	ImagePrompt  string      `json:"imagePrompt,omitempty"`
	ImageKeyword string      `json:"imageKeyword,omitempty"`
	Stats        []Stat      `json:"stats,omitempty"`
	Columns      []Column    `json:"columns,omitempty"`
	Timeline     []Milestone `json:"timeline,omitempty"`
	Diagram      *Diagram    `json:"diagram,omitempty"`
}

// Deck is a normalized presentation with its resolved theme.
type Deck struct {
	Title  string
	Mode   string
	Theme  theme.Theme
	Slides []Slide
}

// Parse decodes presentation JSON into a normalized deck.
func Parse(data []byte) (Deck, error) {
	var raw RawDeck
	if err := json.Unmarshal(data, &raw); err != nil {
		return Deck{}, fmt.Errorf("decode deck: %w", err)
	}
	return FromRaw(raw), nil
}

func FromRaw(raw RawDeck) Deck {
	d := Deck{
		Title:  strings.TrimSpace(raw.Title),
		Mode:   raw.Mode,
		Theme:  theme.Resolve(raw.Theme),
		Slides: make([]Slide, 0, len(raw.Slides)),
	}
	for _, rs := range raw.Slides {
		d.Slides = append(d.Slides, Normalize(rs))
	}
	return d
}

// Normalize maps a raw slide to its archetype variant. A missing or unknown
// slideType becomes bullets.
func Normalize(rs RawSlide) Slide {
	base := Base{
		Title:        rs.Title,
		Content:      rs.Content,
		ImageRef:     firstNonEmpty(rs.ImageRef, rs.ImageURL, rs.ImageData),
		Notes:        rs.Notes,
		ImagePrompt:  rs.ImagePrompt,
		ImageKeyword: rs.ImageKeyword,
	}

	switch Kind(strings.ToLower(strings.TrimSpace(rs.SlideType))) {
	case KindTitle:
		return TitleSlide{base}
	case KindSection:
		return SectionSlide{base}
	case KindQuote:
		return QuoteSlide{base}
	case KindStats:
		return StatsSlide{Base: base, Stats: rs.Stats}
	case KindComparison:
		return ComparisonSlide{Base: base, Columns: rs.Columns}
	case KindTimeline:
		return TimelineSlide{Base: base, Timeline: rs.Timeline}
	case KindDiagram:
		s := DiagramSlide{Base: base}
		if rs.Diagram != nil {
			s.Diagram = *rs.Diagram
		}
		return s
	default:
		return BulletsSlide{base}
	}
}

// ToRaw converts a slide back to its JSON form.
func ToRaw(s Slide) RawSlide {
	if s == nil {
		return RawSlide{SlideType: string(KindBullets)}
	}
	b := s.Common()
	rs := RawSlide{
		SlideType:    string(s.Kind()),
		Title:        b.Title,
		Content:      b.Content,
		Notes:        b.Notes,
		ImageRef:     b.ImageRef,
		ImagePrompt:  b.ImagePrompt,
		ImageKeyword: b.ImageKeyword,
	}
	switch v := s.(type) {
	case StatsSlide:
		rs.Stats = v.Stats
	case ComparisonSlide:
		rs.Columns = v.Columns
	case TimelineSlide:
		rs.Timeline = v.Timeline
	case DiagramSlide:
		dg := v.Diagram
		rs.Diagram = &dg
	}
	return rs
}

func (d Deck) Raw() RawDeck {
	raw := RawDeck{
		Title:  d.Title,
		Mode:   d.Mode,
		Theme:  d.Theme.Raw(),
		Slides: make([]RawSlide, 0, len(d.Slides)),
	}
	for _, s := range d.Slides {
		raw.Slides = append(raw.Slides, ToRaw(s))
	}
	return raw
}

func (d Deck) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Raw())
}

// Sequence returns the slides in render order: a title slide carrying the
// deck title and theme name, when the deck has a title, then the content slides.
func (d Deck) Sequence() []Slide {
	if d.Title == "" {
		return d.Slides
	}
	out := make([]Slide, 0, len(d.Slides)+1)
	out = append(out, TitleSlide{Base{Title: d.Title, Content: []string{d.Theme.Name}}})
	return append(out, d.Slides...)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
