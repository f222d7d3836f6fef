package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/infra/config"
	"github.com/ChaseRain/deckgen/internal/infra/httpclient"
	"github.com/ChaseRain/deckgen/internal/infra/limiter"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/internal/service/gemini"
	"github.com/ChaseRain/deckgen/internal/service/images"
	"github.com/ChaseRain/deckgen/internal/service/orchestrator"
	"github.com/ChaseRain/deckgen/internal/service/ppt"
	"github.com/ChaseRain/deckgen/internal/service/preview"
	"github.com/ChaseRain/deckgen/internal/service/storage"
	"github.com/ChaseRain/deckgen/internal/theme"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

const deckJSON = `{
  "title": "Launch Plan",
  "theme": {"name": "Royal", "bg": "0D0521", "accent1": "7C3AED", "accent2": "D4A636"},
  "slides": [
    {"slideType": "bullets", "title": "Goals", "content": ["Ship v1", "Hire two engineers"]},
    {"slideType": "timeline", "title": "Roadmap", "timeline": [{"year": "Q1", "event": "Beta"}, {"year": "Q2", "event": "GA"}]}
  ]
}`

type stubGenerator struct{ err error }

func (s stubGenerator) GenerateDeck(context.Context, gemini.GenerateRequest) (*deck.RawDeck, error) {
	if s.err != nil {
		return nil, s.err
	}
	d, err := deck.Parse([]byte(deckJSON))
	if err != nil {
		return nil, err
	}
	raw := d.Raw()
	return &raw, nil
}

func newTestRouter(t *testing.T, gen orchestrator.DeckGenerator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	store, err := storage.New(context.Background(), config.StorageConfig{
		Type:     "local",
		BasePath: t.TempDir(),
		BaseURL:  "/files",
		Prefix:   "decks",
	}, log)
	if err != nil {
		t.Fatal(err)
	}
	client := httpclient.New(httpclient.Options{Timeout: 5 * time.Second})
	orch := orchestrator.New(gen, nil,
		ppt.New(images.NewResolver(client, store, log), log),
		preview.New(log), store, limiter.New(2, 0),
		config.RenderConfig{Workers: 2, PreviewPadding: 20, ThumbnailWidth: 240}, log)

	r := NewRouter(orch, store, log)
	gin.SetMode(gin.TestMode)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) DeckResponse {
	t.Helper()
	var resp DeckResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(t, stubGenerator{}), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestExportThenFetch(t *testing.T) {
	r := newTestRouter(t, stubGenerator{})

	w := do(r, http.MethodPost, "/v1/decks/export", deckJSON)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp.Status != StatusSucceeded || resp.DeckID == "" {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Meta.Slides != 3 || resp.Meta.Theme != "Royal" {
		t.Errorf("meta = %+v", resp.Meta)
	}

	pptx := do(r, http.MethodGet, resp.PPTURL, "")
	if pptx.Code != http.StatusOK || !bytes.HasPrefix(pptx.Body.Bytes(), []byte("PK")) {
		t.Errorf("pptx download = %d", pptx.Code)
	}
	if ct := pptx.Header().Get("Content-Type"); !strings.Contains(ct, "presentationml") {
		t.Errorf("pptx content type = %q", ct)
	}

	got := decode(t, do(r, http.MethodGet, "/v1/decks/"+resp.DeckID, ""))
	if got.Deck == nil || got.Deck.Title != "Launch Plan" || len(got.Deck.Slides) != 2 {
		t.Errorf("stored deck = %+v", got.Deck)
	}

	svg := do(r, http.MethodGet, "/v1/decks/"+resp.DeckID+"/slides/2/preview.svg?width=640&height=360", "")
	if svg.Code != http.StatusOK || !strings.Contains(svg.Body.String(), "<svg") {
		t.Errorf("preview = %d", svg.Code)
	}
	if ct := svg.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("preview content type = %q", ct)
	}

	png := do(r, http.MethodGet, "/v1/decks/"+resp.DeckID+"/slides/0/thumbnail.png", "")
	if png.Code != http.StatusOK || !bytes.HasPrefix(png.Body.Bytes(), []byte("\x89PNG")) {
		t.Errorf("thumbnail = %d", png.Code)
	}
}

func TestPreviewPadding(t *testing.T) {
	r := newTestRouter(t, stubGenerator{})
	resp := decode(t, do(r, http.MethodPost, "/v1/decks/export", deckJSON))

	base := "/v1/decks/" + resp.DeckID + "/slides/1/preview.svg?width=960&height=540"
	tests := []struct {
		name  string
		query string
		want  string
	}{
		// configured padding 20: min(940/1920, 520/1080)
		{"default", "", "scale(0.48"},
		{"explicit zero", "&padding=0", "translate(0,0) scale(0.5)"},
		{"invalid falls back", "&padding=-5", "scale(0.48"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, base+tt.query, "")
			if w.Code != http.StatusOK {
				t.Fatalf("preview = %d %s", w.Code, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("preview lacks %q", tt.want)
			}
		})
	}
}

func TestNotFoundAndBadRequests(t *testing.T) {
	r := newTestRouter(t, stubGenerator{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing deck", http.MethodGet, "/v1/decks/nope", "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"missing file", http.MethodGet, "/files/decks/nope.pptx", "", http.StatusNotFound, errors.ErrCodeNotFound},
		{"bad index", http.MethodGet, "/v1/decks/x/slides/abc/preview.svg", "", http.StatusBadRequest, errors.ErrCodeInvalidReq},
		{"bad deck json", http.MethodPost, "/v1/decks/export", "{", http.StatusBadRequest, errors.ErrCodeInvalidDeck},
		{"empty generate", http.MethodPost, "/v1/decks", `{"mode":"office"}`, http.StatusBadRequest, errors.ErrCodeInvalidReq},
		{"bad image", http.MethodPost, "/v1/decks", `{"image_base64":"%%%"}`, http.StatusBadRequest, errors.ErrCodeInvalidReq},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if resp := decode(t, w); resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v", resp.Error)
			}
		})
	}
}

func TestLayoutEndpoint(t *testing.T) {
	r := newTestRouter(t, stubGenerator{})
	w := do(r, http.MethodPost, "/v1/decks/layout?compact=true", deckJSON)
	if w.Code != http.StatusOK {
		t.Fatalf("layout = %d %s", w.Code, w.Body.String())
	}
	var resp LayoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Theme.Bg != "0D0521" || resp.Theme.TextColor != theme.Default().TextColor {
		t.Errorf("theme = %+v", resp.Theme)
	}
	if len(resp.Pages) != 3 || resp.Pages[2].Kind != deck.KindTimeline {
		t.Fatalf("pages = %d", len(resp.Pages))
	}
	if len(resp.Pages[1].Commands) == 0 {
		t.Error("bullets page has no commands")
	}
}

func TestGenerateDeck(t *testing.T) {
	r := newTestRouter(t, stubGenerator{})
	w := do(r, http.MethodPost, "/v1/decks", `{"topic":"launch","client_request_id":"abc"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("generate = %d %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	if resp.RequestID != "abc" || resp.DeckID != "abc" || resp.PPTURL != "/files/decks/abc.pptx" {
		t.Errorf("response = %+v", resp)
	}
}

func TestGenerateDeckStream(t *testing.T) {
	r := newTestRouter(t, stubGenerator{})
	w := do(r, http.MethodPost, "/v1/decks", `{"topic":"launch","stream":true}`)
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	for _, ev := range []string{"event: start", "event: generating", "event: layout", "event: rendering", "event: complete"} {
		if !strings.Contains(body, ev+"\n") {
			t.Errorf("stream missing %q", ev)
		}
	}
	if !strings.Contains(body, `"ppt_url":"/files/decks/`) {
		t.Errorf("complete event lacks url: %s", body)
	}
}

func TestGenerateDeckStreamError(t *testing.T) {
	r := newTestRouter(t, stubGenerator{err: errors.New(errors.ErrCodeGeminiAPI, "down")})
	w := do(r, http.MethodPost, "/v1/decks", `{"topic":"launch","stream":true}`)
	body := w.Body.String()
	if !strings.Contains(body, "event: error\n") || !strings.Contains(body, errors.ErrCodeGeminiAPI) {
		t.Errorf("stream = %s", body)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[string]int{
		errors.ErrCodeRateLimited:  http.StatusTooManyRequests,
		errors.ErrCodeInvalidTheme: http.StatusBadRequest,
		errors.ErrCodeGeminiAPI:    http.StatusBadGateway,
		errors.ErrCodeStorage:      http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := statusFor(code); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", code, got, want)
		}
	}
}
