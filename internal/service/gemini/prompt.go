package gemini

import (
	"fmt"
	"strings"
)

var styleGuides = map[string]string{
	"modern":   `Modern: clean lines, sans-serif fonts, generous spacing, gradient accents. fontStyle = "modern".`,
	"classic":  `Classic: serif fonts, traditional layout, refined borders, muted elegance. fontStyle = "classic".`,
	"bold":     `Bold: large headlines, high contrast, strong colors, impactful statements. fontStyle = "modern".`,
	"minimal":  `Minimal: lots of whitespace, understated, one key point per slide. fontStyle = "modern".`,
	"creative": `Creative: playful typography, unexpected layouts, vibrant energy. fontStyle = "playful".`,
}

var gradientGuides = map[string]string{
	"ocean":      "Use ocean blues (0EA5E9, 0284C7) on deep navy backgrounds (0B1120).",
	"sunset":     "Use sunset warm tones (F97316, EF4444, EC4899) on dark warm backgrounds (1A0A0E).",
	"forest":     "Use forest greens (059669, 10B981, 22C55E) on deep green backgrounds (0C1B0F).",
	"royal":      "Use royal purple and gold (7C3AED, D4A636) on dark backgrounds (0D0521).",
	"neon":       "Use neon cyan and magenta (06B6D4, EC4899) on a near-black background (0A0A0F).",
	"aurora":     "Use aurora green and purple (34D399, A78BFA) on a night sky background (0F172A).",
	"monochrome": "Use grays and whites (E5E7EB, 9CA3AF) on a pure dark background (111111).",
	"auto": "Choose colors that match the subject: nature = greens, technology = blues, " +
		"finance = navy and gold, health = teal, education = indigo and amber.",
}

func buildPrompt(req GenerateRequest) string {
	source := req.Document
	if len(source) > maxSourceChars {
		source = source[:maxSourceChars] + "...[truncated]"
	}
	var input strings.Builder
	if req.Topic != "" {
		fmt.Fprintf(&input, "Topic: %s\n", req.Topic)
	}
	if source != "" {
		fmt.Fprintf(&input, "Source material:\n%s\n", source)
	}
	if len(req.Image) > 0 {
		input.WriteString("An image is attached; build the deck around what it shows.\n")
	}

	return fmt.Sprintf(`You are a presentation designer. Create a %d-slide presentation.
Content type: %s. Mode: %s. Write all text in %s.

%s
STYLE: %s
COLORS: %s

CONTENT RULES:
- Every bullet is a full, specific sentence. No filler, no emojis.
- Stats use realistic numbers. Quotes are real or insightful.
- Every slide has "imageKeyword" (1-3 words naming a physical object) and "imagePrompt"
  (a detailed photographic description with no text in the image).

OUTPUT: valid JSON only, no markdown:
{
  "title": "Specific title",
  "mode": "%s",
  "theme": {"name": "Theme name", "bg": "0F172A", "accent1": "3B82F6", "accent2": "8B5CF6",
            "textColor": "F1F5F9", "cardBg": "1E293B", "isDark": true, "fontStyle": "modern|classic|playful"},
  "slides": [
    {"slideType": "section", "title": "...", "content": ["subtitle"], "imageKeyword": "...", "imagePrompt": "..."},
    {"slideType": "bullets", "title": "...", "content": ["point", "point", "point"], "imageKeyword": "...", "imagePrompt": "..."},
    {"slideType": "stats", "title": "...", "content": ["context"], "stats": [{"value": "95%%", "label": "..."}]},
    {"slideType": "quote", "title": "...", "content": ["quote text", "-- Author"]},
    {"slideType": "comparison", "title": "A vs B", "columns": [{"title": "A", "points": ["..."]}, {"title": "B", "points": ["..."]}]},
    {"slideType": "timeline", "title": "...", "timeline": [{"year": "2020", "event": "..."}]},
    {"slideType": "diagram", "title": "...", "content": ["caption"],
     "diagram": {"nodes": [{"id": "n1", "label": "...", "type": "start|process|decision|data|end"}],
                 "connections": [{"from": "n1", "to": "n2", "label": "optional"}]}}
  ]
}

RULES:
1. Generate EXACTLY %d slides, using at least 4 different slideType values.
2. The first slide is a "section" intro.
3. Stats: 3-4 items. Comparison: 2 columns of 3-5 points. Timeline: 3-6 items. Diagram: at most 8 nodes.
4. Theme colors are 6-char hex WITHOUT '#'.`,
		req.SlideCount, req.ContentType, req.Mode, req.Language,
		input.String(),
		styleGuides[req.Style], gradientGuides[req.Gradient],
		req.Mode, req.SlideCount)
}
