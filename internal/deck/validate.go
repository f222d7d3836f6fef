package deck

import "fmt"

// Display limits applied by the layout engine. Content beyond them is
// dropped silently at layout time and reported by Validate.
const (
	MaxStats          = 4
	MaxColumns        = 2
	MaxColumnPoints   = 5
	MaxMilestones     = 6
	MaxCompactBullets = 4
	MaxDiagramColumns = 4
)

// Issue is a non-fatal content problem. Layout still succeeds.
type Issue struct {
	Slide   int    `json:"slide"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("slide %d %s: %s", i.Slide, i.Field, i.Message)
}

// Validate lists what the layout will drop or render empty. Slide numbers
// are indexes into d.Slides.
func Validate(d Deck) []Issue {
	var issues []Issue
	add := func(slide int, field, format string, args ...any) {
		issues = append(issues, Issue{Slide: slide, Field: field, Message: fmt.Sprintf(format, args...)})
	}

	for i, s := range d.Slides {
		if s == nil {
			add(i, "slideType", "missing slide")
			continue
		}
		if s.Common().Title == "" && s.Kind() != KindQuote {
			add(i, "title", "empty title")
		}

		switch v := s.(type) {
		case BulletsSlide:
			if len(v.Content) == 0 {
				add(i, "content", "no bullet points")
			}
		case StatsSlide:
			if len(v.Stats) == 0 {
				add(i, "stats", "no metrics")
			} else if len(v.Stats) > MaxStats {
				add(i, "stats", "%d metrics, only the first %d are shown", len(v.Stats), MaxStats)
			}
		case ComparisonSlide:
			if len(v.Columns) == 0 {
				add(i, "columns", "no columns")
			} else if len(v.Columns) > MaxColumns {
				add(i, "columns", "%d columns, only the first %d are shown", len(v.Columns), MaxColumns)
			}
			for c, col := range v.Columns {
				if c < MaxColumns && len(col.Points) > MaxColumnPoints {
					add(i, fmt.Sprintf("columns[%d].points", c), "%d points, only the first %d are shown", len(col.Points), MaxColumnPoints)
				}
			}
		case TimelineSlide:
			if len(v.Timeline) == 0 {
				add(i, "timeline", "no milestones")
			} else if len(v.Timeline) > MaxMilestones {
				add(i, "timeline", "%d milestones, only the first %d are shown", len(v.Timeline), MaxMilestones)
			}
		case DiagramSlide:
			issues = append(issues, validateDiagram(i, v.Diagram)...)
		}
	}
	return issues
}

func validateDiagram(slide int, dg Diagram) []Issue {
	var issues []Issue
	if len(dg.Nodes) == 0 {
		return append(issues, Issue{Slide: slide, Field: "diagram.nodes", Message: "no nodes"})
	}

	ids := make(map[string]bool, len(dg.Nodes))
	for _, n := range dg.Nodes {
		if ids[n.ID] {
			issues = append(issues, Issue{Slide: slide, Field: "diagram.nodes", Message: fmt.Sprintf("duplicate node id %q", n.ID)})
		}
		ids[n.ID] = true
	}
	for _, c := range dg.Connections {
		if !ids[c.From] || !ids[c.To] {
			issues = append(issues, Issue{
				Slide:   slide,
				Field:   "diagram.connections",
				Message: fmt.Sprintf("connection %s -> %s references a missing node and is skipped", c.From, c.To),
			})
		}
	}
	return issues
}
