package layout

import (
	"context"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/draw"
	"github.com/ChaseRain/deckgen/internal/theme"
)

func base(title string, content ...string) deck.Base {
	return deck.Base{Title: title, Content: content}
}

func texts(cmds []draw.Command, role draw.Role) []string {
	var out []string
	for _, c := range draw.Filter(cmds, role) {
		if c.Kind == draw.KindText {
			out = append(out, c.Text)
		}
	}
	return out
}

func TestBulletsCompactTruncates(t *testing.T) {
	s := deck.BulletsSlide{Base: base("Points", "a", "b", "c", "d", "e", "f")}
	th := theme.Default()

	compact := Slide(s, th, 1, true)
	if got := texts(compact, draw.RoleBody); len(got) != 4 {
		t.Fatalf("compact bullets = %v", got)
	}
	if more := texts(compact, draw.RoleMore); len(more) != 1 || more[0] != "+2 more" {
		t.Errorf("more marker = %v", more)
	}

	full := Slide(s, th, 1, false)
	if got := texts(full, draw.RoleBody); len(got) != 6 {
		t.Errorf("full bullets = %v", got)
	}
	if draw.Count(full, draw.RoleMore) != 0 {
		t.Error("full mode should not add a more marker")
	}
}

func TestBulletsImagePanel(t *testing.T) {
	th := theme.Default()
	plain := Slide(deck.BulletsSlide{Base: base("T", "a")}, th, 0, false)
	if draw.Count(plain, draw.RoleImage) != 0 {
		t.Fatal("image panel without image")
	}
	card := draw.Filter(plain, draw.RoleCard)[0]
	if card.Bounds.W != contentW {
		t.Errorf("card width = %v, want full %v", card.Bounds.W, contentW)
	}

	b := base("T", "a")
	b.ImageRef = "https://example.com/x.png"
	withImg := Slide(deck.BulletsSlide{Base: b}, th, 0, false)
	imgs := draw.Filter(withImg, draw.RoleImage)
	if len(imgs) != 1 || imgs[0].ImageRef != b.ImageRef {
		t.Fatalf("image commands = %+v", imgs)
	}
	if w := imgs[0].Bounds.W; w < contentW*0.35 || w > contentW*0.45 {
		t.Errorf("image width = %v", w)
	}
}

func TestNilSlideFallsBackToBullets(t *testing.T) {
	cmds := Slide(nil, theme.Default(), 0, false)
	if draw.Count(cmds, draw.RoleCard) != 1 || draw.Count(cmds, draw.RoleTitleBar) != 1 {
		t.Fatalf("nil slide did not render as bullets: %d commands", len(cmds))
	}
}

func TestBadgeNumbering(t *testing.T) {
	th := theme.Default()
	cmds := Slide(deck.QuoteSlide{Base: base("Q", "Be curious.")}, th, 4, false)
	if got := texts(cmds, draw.RoleBadgeText); len(got) != 1 || got[0] != "5" {
		t.Errorf("badge = %v", got)
	}
	if draw.Count(cmds, draw.RoleTitleBar) != 0 {
		t.Error("quote slides have no title bar")
	}

	section := Slide(deck.SectionSlide{Base: base("Part 2", "Why")}, th, 4, false)
	if draw.Count(section, draw.RoleBadge) != 0 || draw.Count(section, draw.RoleFooter) != 0 {
		t.Error("section slides carry no badge or footer")
	}
}

func TestQuoteFallsBackToTitle(t *testing.T) {
	cmds := Slide(deck.QuoteSlide{Base: base("Stay hungry")}, theme.Default(), 0, false)
	if got := texts(cmds, draw.RoleBody); len(got) != 1 || got[0] != "Stay hungry" {
		t.Errorf("quote text = %v", got)
	}
	if draw.Count(cmds, draw.RoleAttribution) != 0 {
		t.Error("attribution without content[1]")
	}
}

func TestSectionWithImageUsesOverlay(t *testing.T) {
	b := base("Chapter")
	b.ImageRef = "data:image/png;base64,AA=="
	cmds := Slide(deck.SectionSlide{Base: b}, theme.Default(), 0, false)
	overlays := draw.Filter(cmds, draw.RoleOverlay)
	if len(overlays) != 1 || overlays[0].FillOpacity() != 0.75 {
		t.Fatalf("overlay = %+v", overlays)
	}
	if draw.Count(cmds, draw.RoleSubtitle) != 0 {
		t.Error("subtitle without content")
	}
}

func TestStatsTruncatesToFour(t *testing.T) {
	stats := make([]deck.Stat, 6)
	for i := range stats {
		stats[i] = deck.Stat{Value: "1", Label: "x"}
	}
	cmds := Slide(deck.StatsSlide{Base: base("KPIs"), Stats: stats}, theme.Default(), 2, false)
	if got := draw.Count(cmds, draw.RoleStatCard); got != 4 {
		t.Fatalf("stat cards = %d, want 4", got)
	}
}

func TestStatsLayouts(t *testing.T) {
	th := theme.Default()
	stats := []deck.Stat{{Value: "95%", Label: "a"}, {Value: "3x", Label: "b"}, {Value: "$2B", Label: "c"}}

	row := draw.Filter(Slide(deck.StatsSlide{Base: base("S"), Stats: stats}, th, 0, false), draw.RoleStatCard)
	for _, c := range row {
		if c.Bounds.Y != row[0].Bounds.Y || c.Bounds.W != 500 {
			t.Errorf("row card = %+v", c.Bounds)
		}
	}

	b := base("S", "context")
	b.ImageRef = "x.png"
	grid := draw.Filter(Slide(deck.StatsSlide{Base: b, Stats: stats}, th, 0, false), draw.RoleStatCard)
	if len(grid) != 3 {
		t.Fatalf("grid cards = %d", len(grid))
	}
	if grid[2].Bounds.X != grid[0].Bounds.X || grid[2].Bounds.Y <= grid[0].Bounds.Y {
		t.Errorf("third card should start the second row: %+v vs %+v", grid[2].Bounds, grid[0].Bounds)
	}

	empty := Slide(deck.StatsSlide{Base: base("S")}, th, 0, false)
	if draw.Count(empty, draw.RoleStatCard) != 0 {
		t.Error("cards without stats")
	}
}

func TestComparisonColumns(t *testing.T) {
	th := theme.Default()
	two := deck.ComparisonSlide{Base: base("A vs B"), Columns: []deck.Column{
		{Title: "A", Points: []string{"1", "2", "3", "4", "5", "6"}},
		{Title: "B", Points: []string{"1"}},
		{Title: "C"},
	}}
	cmds := Slide(two, th, 0, false)
	if draw.Count(cmds, draw.RoleColumn) != 2 {
		t.Errorf("columns = %d", draw.Count(cmds, draw.RoleColumn))
	}
	if got := len(texts(cmds, draw.RoleBody)); got != 6 {
		t.Errorf("points = %d, want 5+1", got)
	}
	if len(texts(cmds, draw.RoleVersus)) != 1 {
		t.Error("missing VS badge")
	}

	one := Slide(deck.ComparisonSlide{Base: base("Solo"), Columns: two.Columns[:1]}, th, 0, false)
	if draw.Count(one, draw.RoleColumn) != 1 || draw.Count(one, draw.RoleVersus) != 0 {
		t.Error("single column should render without VS")
	}

	none := Slide(deck.ComparisonSlide{Base: base("Empty")}, th, 0, false)
	if draw.Count(none, draw.RoleColumn) != 0 {
		t.Error("columns without data")
	}
}

func TestComparisonImageReplacesDecorations(t *testing.T) {
	b := base("A vs B")
	b.ImageRef = "x.png"
	cmds := Slide(deck.ComparisonSlide{Base: b, Columns: []deck.Column{{Title: "A"}, {Title: "B"}}}, theme.Default(), 0, false)
	if draw.Count(cmds, draw.RoleDecoration) != 0 {
		t.Error("decorations drawn over an image background")
	}
	ov := draw.Filter(cmds, draw.RoleOverlay)
	if len(ov) != 1 || ov[0].Fill.Color != black || ov[0].FillOpacity() != 0.6 {
		t.Errorf("overlay = %+v", ov)
	}
}

func TestTimelineAlternates(t *testing.T) {
	items := []deck.Milestone{{"2020", "a"}, {"2021", "b"}, {"2022", "c"}, {"2023", "d"}, {"2024", "e"}, {"2025", "f"}, {"2026", "g"}}
	cmds := Slide(deck.TimelineSlide{Base: base("Roadmap"), Timeline: items}, theme.Default(), 3, false)

	events := draw.Filter(cmds, draw.RoleEvent)
	if len(events) != deck.MaxMilestones {
		t.Fatalf("events = %d", len(events))
	}
	for i, ev := range events {
		above := ev.Bounds.Y+ev.Bounds.H < baselineY
		if (i%2 == 0) != above {
			t.Errorf("event %d at y=%v, above=%v", i, ev.Bounds.Y, above)
		}
		if cx := ev.Bounds.CenterX(); cx != MilestoneX(i, len(events)) {
			t.Errorf("event %d center %v", i, cx)
		}
	}
	if draw.Count(cmds, draw.RoleBaseline) != 1 {
		t.Error("missing baseline")
	}
}

func TestTimelineEmptyKeepsBaseline(t *testing.T) {
	cmds := Slide(deck.TimelineSlide{Base: base("Soon")}, theme.Default(), 0, false)
	if draw.Count(cmds, draw.RoleBaseline) != 1 || draw.Count(cmds, draw.RoleTick) != 0 {
		t.Error("empty timeline should draw only the baseline")
	}
}

func TestDecorationCycle(t *testing.T) {
	if PatternFor(7) != PatternTriangle || PatternFor(-1) != PatternCluster {
		t.Errorf("PatternFor mismatch: %v %v", PatternFor(7), PatternFor(-1))
	}
	for i := 0; i < 5; i++ {
		n := len(Decorations(i, theme.Default()))
		if n < 1 || n > 3 {
			t.Errorf("pattern %d has %d ornaments", i, n)
		}
	}
	tri := Decorations(2, theme.Default())[0]
	if tri.Kind != draw.KindPolygon || tri.Shape != draw.ShapeRightTriangle || len(tri.Points) != 3 {
		t.Errorf("triangle ornament = %+v", tri)
	}
}

func TestDiagramSlideFitsCanvas(t *testing.T) {
	dg := deck.Diagram{
		Nodes: []deck.Node{
			{ID: "s", Label: "Start", Type: deck.NodeStart},
			{ID: "p", Label: "Work"},
			{ID: "d", Label: "OK?", Type: deck.NodeDecision},
			{ID: "e", Label: "End", Type: deck.NodeEnd},
		},
		Connections: []deck.Connection{{From: "s", To: "p"}, {From: "p", To: "d"}, {From: "d", To: "e", Label: "yes"}},
	}
	cmds := Slide(deck.DiagramSlide{Base: base("Flow", "How it works"), Diagram: dg}, theme.Default(), 0, false)

	nodes := draw.Filter(cmds, draw.RoleNode)
	if len(nodes) != 4 {
		t.Fatalf("nodes = %d", len(nodes))
	}
	for _, n := range nodes {
		b := n.Bounds
		if b.X < diagramCanvas.X || b.Y < diagramCanvas.Y ||
			b.X+b.W > diagramCanvas.X+diagramCanvas.W || b.Y+b.H > diagramCanvas.Y+diagramCanvas.H {
			t.Errorf("node outside canvas: %+v", b)
		}
	}
	if draw.Count(cmds, draw.RoleCaption) != 1 {
		t.Error("missing caption")
	}

	empty := Slide(deck.DiagramSlide{Base: base("Flow")}, theme.Default(), 0, false)
	if draw.Count(empty, draw.RoleDiagramCanvas) != 1 || draw.Count(empty, draw.RoleNode) != 0 {
		t.Error("empty diagram should draw the canvas only")
	}
}

func TestDeckLaysOutInOrder(t *testing.T) {
	d := deck.Deck{
		Title: "Deck",
		Theme: theme.Default(),
		Slides: []deck.Slide{
			deck.SectionSlide{Base: base("Intro")},
			deck.BulletsSlide{Base: deck.Base{Title: "B", Content: []string{"x"}, Notes: "say hi"}},
		},
	}
	pages, err := Deck(context.Background(), d, false, 2)
	if err != nil {
		t.Fatalf("Deck: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("pages = %d", len(pages))
	}
	if pages[0].Kind != deck.KindTitle || pages[2].Kind != deck.KindBullets {
		t.Errorf("kinds = %s %s", pages[0].Kind, pages[2].Kind)
	}
	if pages[2].Notes != "say hi" {
		t.Errorf("notes = %q", pages[2].Notes)
	}
	if got := texts(pages[2].Commands, draw.RoleBadgeText); len(got) != 1 || got[0] != "3" {
		t.Errorf("badge = %v", got)
	}
}

func TestDeckHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := deck.Deck{Theme: theme.Default(), Slides: []deck.Slide{deck.BulletsSlide{}}}
	if _, err := Deck(ctx, d, false, 1); err == nil {
		t.Fatal("expected context error")
	}
}

func genSlide() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 7),
		gen.AlphaString(),
		gen.SliceOfN(5, gen.AlphaString()),
		gen.Bool(),
		gen.IntRange(0, 8),
	).Map(func(vals []interface{}) deck.Slide {
		b := deck.Base{Title: vals[1].(string), Content: vals[2].([]string)}
		if vals[3].(bool) {
			b.ImageRef = "img.png"
		}
		n := vals[4].(int)
		switch vals[0].(int) {
		case 0:
			return deck.TitleSlide{Base: b}
		case 1:
			return deck.SectionSlide{Base: b}
		case 2:
			return deck.QuoteSlide{Base: b}
		case 3:
			return deck.StatsSlide{Base: b, Stats: make([]deck.Stat, n)}
		case 4:
			return deck.ComparisonSlide{Base: b, Columns: make([]deck.Column, n%3)}
		case 5:
			return deck.TimelineSlide{Base: b, Timeline: make([]deck.Milestone, n)}
		case 6:
			nodes := make([]deck.Node, n)
			for i := range nodes {
				nodes[i] = deck.Node{ID: string(rune('a' + i))}
			}
			return deck.DiagramSlide{Base: b, Diagram: deck.Diagram{Nodes: nodes, Connections: []deck.Connection{{From: "a", To: "b"}}}}
		default:
			return deck.BulletsSlide{Base: b}
		}
	})
}

func TestLayoutProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("layout is deterministic", prop.ForAll(
		func(s deck.Slide, index int, compact bool) bool {
			th := theme.Default()
			return reflect.DeepEqual(Slide(s, th, index, compact), Slide(s, th, index, compact))
		},
		genSlide(),
		gen.IntRange(0, 40),
		gen.Bool(),
	))

	properties.Property("every slide starts with a background", prop.ForAll(
		func(s deck.Slide, index int) bool {
			cmds := Slide(s, theme.Default(), index, false)
			return len(cmds) > 0 && cmds[0].Role == draw.RoleBackground
		},
		genSlide(),
		gen.IntRange(0, 40),
	))

	properties.Property("stats never exceed four cards", prop.ForAll(
		func(n int) bool {
			s := deck.StatsSlide{Stats: make([]deck.Stat, n)}
			return draw.Count(Slide(s, theme.Default(), 0, false), draw.RoleStatCard) == min(n, deck.MaxStats)
		},
		gen.IntRange(0, 12),
	))

	properties.TestingRun(t)
}
