package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ChaseRain/deckgen/internal/infra/httpclient"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

const sampleDeck = `{"title":"Ocean Life","mode":"office","theme":{"name":"Deep","bg":"0B1120","accent1":"0EA5E9"},` +
	`"slides":[{"slideType":"section","title":"Intro","content":["Below the waves"]},` +
	`{"slideType":"stats","title":"Numbers","stats":[{"value":"71%","label":"of Earth"}]}]}`

func TestParseDeck(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"plain", sampleDeck},
		{"fenced", "```json\n" + sampleDeck + "\n```"},
		{"prose around", "Here is your deck:\n" + sampleDeck + "\nEnjoy!"},
		{"trailing commas", strings.Replace(sampleDeck, `"of Earth"}]}]}`, `"of Earth"},],},]}`, 1)},
		{"control chars", strings.Replace(sampleDeck, "Below the waves", "Below\tthe\nwaves", 1)},
		{"truncated", sampleDeck[:strings.Index(sampleDeck, `"of Earth"`)+5]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ParseDeck(tt.in)
			if err != nil {
				t.Fatalf("ParseDeck: %v", err)
			}
			if raw.Title != "Ocean Life" {
				t.Errorf("title = %q", raw.Title)
			}
			if len(raw.Slides) != 2 {
				t.Fatalf("slides = %d", len(raw.Slides))
			}
			if raw.Slides[1].SlideType != "stats" {
				t.Errorf("slide 1 type = %q", raw.Slides[1].SlideType)
			}
		})
	}
}

func TestParseDeckRejectsGarbage(t *testing.T) {
	if _, err := ParseDeck("I cannot help with that."); err == nil {
		t.Fatal("expected error for output without JSON")
	}
}

func TestCloseTruncated(t *testing.T) {
	got := closeTruncated(`{"a":[{"b":"unterminated`)
	want := `{"a":[{"b":"unterminated"}]}`
	if got != want {
		t.Errorf("closeTruncated = %s, want %s", got, want)
	}
	if got := closeTruncated(`{"a":[1,2,`); got != `{"a":[1,2]}` {
		t.Errorf("dangling comma = %s", got)
	}
}

func TestWithDefaults(t *testing.T) {
	r := GenerateRequest{SlideCount: 99, Style: "unknown", Gradient: "sunset"}.WithDefaults()
	if r.Mode != DefaultMode || r.ContentType != DefaultContentType || r.Language != DefaultLanguage {
		t.Errorf("defaults not applied: %+v", r)
	}
	if r.SlideCount != MaxSlideCount {
		t.Errorf("slide count = %d", r.SlideCount)
	}
	if r.Style != DefaultStyle || r.Gradient != "sunset" {
		t.Errorf("style/gradient = %s/%s", r.Style, r.Gradient)
	}
}

func TestBuildPromptCarriesOptions(t *testing.T) {
	p := buildPrompt(GenerateRequest{Topic: "coral reefs", Style: "creative", Gradient: "ocean", SlideCount: 5}.WithDefaults())
	for _, want := range []string{"coral reefs", "5-slide", `fontStyle = "playful"`, "0EA5E9", "EXACTLY 5 slides"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := httpclient.New(httpclient.Options{Timeout: 5 * time.Second})
	return New("test-key", "test-model", client, logger.Nop()).WithBaseURL(srv.URL)
}

func TestGenerateDeck(t *testing.T) {
	var captured map[string]interface{}
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test-model:generateContent" || r.URL.Query().Get("key") != "test-key" {
			t.Errorf("unexpected request %s", r.URL)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)

		text, _ := json.Marshal("```json\n" + sampleDeck + "\n```")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":` + string(text) + `}]}}]}`))
	})

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	raw, err := svc.GenerateDeck(context.Background(), GenerateRequest{Topic: "oceans", Image: png})
	if err != nil {
		t.Fatalf("GenerateDeck: %v", err)
	}
	if raw.Title != "Ocean Life" || len(raw.Slides) != 2 {
		t.Errorf("deck = %+v", raw)
	}

	contents := captured["contents"].([]interface{})
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	if len(parts) != 2 {
		t.Fatalf("parts = %d", len(parts))
	}
	inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
	if inline["mime_type"] != "image/png" {
		t.Errorf("mime_type = %v", inline["mime_type"])
	}
}

func TestGenerateDeckErrors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	if _, err := svc.GenerateDeck(context.Background(), GenerateRequest{}); !errors.Is(err, errors.ErrCodeInvalidReq) {
		t.Errorf("empty request error = %v", err)
	}
	if _, err := svc.GenerateDeck(context.Background(), GenerateRequest{Topic: "x"}); !errors.Is(err, errors.ErrCodeGeminiAPI) {
		t.Errorf("api error = %v", err)
	}
}

func TestGenerateDeckUnparseable(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	})
	_, err := svc.GenerateDeck(context.Background(), GenerateRequest{Topic: "x"})
	if !errors.Is(err, errors.ErrCodeGeminiAPI) {
		t.Errorf("error = %v", err)
	}
}
