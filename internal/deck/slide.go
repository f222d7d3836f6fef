package deck

// Kind names a slide archetype.
type Kind string

const (
	KindTitle      Kind = "title"
	KindBullets    Kind = "bullets"
	KindSection    Kind = "section"
	KindQuote      Kind = "quote"
	KindStats      Kind = "stats"
	KindComparison Kind = "comparison"
	KindTimeline   Kind = "timeline"
	KindDiagram    Kind = "diagram"
)

// Slide is one archetype-tagged slide. Each variant only carries the
// structured fields its archetype reads.
type Slide interface {
	Kind() Kind
	Common() Base
}

// Base holds the fields every archetype shares.
type Base struct {
	Title        string
	Content      []string
	ImageRef     string
	Notes        string
	ImagePrompt  string
	ImageKeyword string
}

func (b Base) Common() Base { return b }

// Line returns Content[i] or "" when absent.
func (b Base) Line(i int) string {
	if i < 0 || i >= len(b.Content) {
		return ""
	}
	return b.Content[i]
}

type TitleSlide struct{ Base }

type BulletsSlide struct{ Base }

type SectionSlide struct{ Base }

type QuoteSlide struct{ Base }

type StatsSlide struct {
	Base
	Stats []Stat
}

type ComparisonSlide struct {
	Base
	Columns []Column
}

type TimelineSlide struct {
	Base
	Timeline []Milestone
}

type DiagramSlide struct {
	Base
	Diagram Diagram
}

func (TitleSlide) Kind() Kind      { return KindTitle }
func (BulletsSlide) Kind() Kind    { return KindBullets }
func (SectionSlide) Kind() Kind    { return KindSection }
func (QuoteSlide) Kind() Kind      { return KindQuote }
func (StatsSlide) Kind() Kind      { return KindStats }
func (ComparisonSlide) Kind() Kind { return KindComparison }
func (TimelineSlide) Kind() Kind   { return KindTimeline }
func (DiagramSlide) Kind() Kind    { return KindDiagram }

type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Column struct {
	Title  string   `json:"title"`
	Points []string `json:"points"`
}

type Milestone struct {
	Year  string `json:"year"`
	Event string `json:"event"`
}

type NodeType string

const (
	NodeStart    NodeType = "start"
	NodeEnd      NodeType = "end"
	NodeDecision NodeType = "decision"
	NodeData     NodeType = "data"
	NodeProcess  NodeType = "process"
)

type Node struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  NodeType `json:"type,omitempty"`
}

type Connection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

type Diagram struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
}

// WithImage returns a copy of s with its image reference replaced.
func WithImage(s Slide, ref string) Slide {
	switch v := s.(type) {
	case TitleSlide:
		v.ImageRef = ref
		return v
	case BulletsSlide:
		v.ImageRef = ref
		return v
	case SectionSlide:
		v.ImageRef = ref
		return v
	case QuoteSlide:
		v.ImageRef = ref
		return v
	case StatsSlide:
		v.ImageRef = ref
		return v
	case ComparisonSlide:
		v.ImageRef = ref
		return v
	case TimelineSlide:
		v.ImageRef = ref
		return v
	case DiagramSlide:
		v.ImageRef = ref
		return v
	default:
		return s
	}
}
