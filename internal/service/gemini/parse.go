package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ChaseRain/deckgen/internal/deck"
)

var (
	fencePattern    = regexp.MustCompile("(?i)```(?:json)?")
	trailingComma   = regexp.MustCompile(`,\s*([}\]])`)
	controlChars    = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	danglingTrailer = regexp.MustCompile(`,\s*$`)
)

// ParseDeck decodes model output into a raw deck, repairing the usual defects
// of LLM JSON: markdown fences, surrounding prose, control characters,
// trailing commas and truncation.
func ParseDeck(text string) (*deck.RawDeck, error) {
	stripped := stripFences(text)
	object := outermostObject(stripped)
	candidates := []string{
		text,
		stripped,
		object,
		sanitize(object),
		// truncated output: keep everything after the first brace
		closeTruncated(sanitize(fromFirstBrace(stripped))),
	}
	for _, c := range candidates {
		if raw, ok := decode(c); ok {
			return raw, nil
		}
	}

	// model appended commentary after a complete object
	clean := sanitize(object)
	for end := len(clean) - 1; end > 0; end-- {
		if clean[end-1] != '}' {
			continue
		}
		if raw, ok := decode(clean[:end]); ok {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("no JSON object found in %d bytes of model output", len(text))
}

func decode(s string) (*deck.RawDeck, bool) {
	var raw deck.RawDeck
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	return &raw, true
}

func stripFences(s string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(s, ""))
}

func fromFirstBrace(s string) string {
	if i := strings.Index(s, "{"); i >= 0 {
		return s[i:]
	}
	return s
}

func outermostObject(s string) string {
	s = fromFirstBrace(s)
	if last := strings.LastIndex(s, "}"); last >= 0 {
		return s[:last+1]
	}
	return s
}

func sanitize(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	return trailingComma.ReplaceAllString(s, "$1")
}

// closeTruncated terminates an open string and closes unbalanced brackets in
// nesting order.
func closeTruncated(s string) string {
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var b strings.Builder
	b.WriteString(s)
	if inString {
		b.WriteByte('"')
	}
	out := danglingTrailer.ReplaceAllString(b.String(), "")
	b.Reset()
	b.WriteString(out)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return trailingComma.ReplaceAllString(b.String(), "$1")
}
