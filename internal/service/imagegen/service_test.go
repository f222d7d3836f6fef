package imagegen

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/infra/httpclient"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

func newTestService(t *testing.T, body string, status int) *Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	client := httpclient.New(httpclient.Options{Timeout: 5 * time.Second})
	return New("k", "image-model", client, logger.Nop()).WithBaseURL(srv.URL)
}

func TestGenerateSlideImage(t *testing.T) {
	// "iVBORw0KGgo=" is the PNG signature
	svc := newTestService(t, `{"candidates":[{"content":{"parts":[{"text":"here"},{"inlineData":{"mimeType":"image/png","data":"iVBORw0KGgo="}}]}}]}`, http.StatusOK)

	img, err := svc.GenerateSlideImage(context.Background(), "a lighthouse at dusk", "bold")
	if err != nil {
		t.Fatalf("GenerateSlideImage: %v", err)
	}
	if !bytes.HasPrefix(img.Bytes, []byte{0x89, 'P', 'N', 'G'}) {
		t.Errorf("bytes = %x", img.Bytes)
	}
	if img.MimeType != "image/png" {
		t.Errorf("mime = %q", img.MimeType)
	}
}

func TestGenerateSlideImageErrors(t *testing.T) {
	noImage := newTestService(t, `{"candidates":[{"content":{"parts":[{"text":"no"}]}}]}`, http.StatusOK)
	if _, err := noImage.GenerateSlideImage(context.Background(), "x", ""); !errors.Is(err, errors.ErrCodeImageGenAPI) {
		t.Errorf("no image error = %v", err)
	}
	if _, err := noImage.GenerateSlideImage(context.Background(), " ", ""); !errors.Is(err, errors.ErrCodeInvalidReq) {
		t.Errorf("empty prompt error = %v", err)
	}

	failing := newTestService(t, `{}`, http.StatusForbidden)
	if _, err := failing.GenerateSlideImage(context.Background(), "x", ""); !errors.Is(err, errors.ErrCodeImageGenAPI) {
		t.Errorf("status error = %v", err)
	}
}

func TestPromptFor(t *testing.T) {
	tests := []struct {
		slide deck.Slide
		want  string
	}{
		{deck.BulletsSlide{Base: deck.Base{Title: "T", ImagePrompt: "explicit", ImageKeyword: "kw"}}, "explicit"},
		{deck.BulletsSlide{Base: deck.Base{Title: "Harbors", ImageKeyword: "ship"}}, `A photograph of ship, illustrating "Harbors"`},
		{deck.QuoteSlide{Base: deck.Base{Title: "none"}}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := PromptFor(tt.slide); got != tt.want {
			t.Errorf("PromptFor(%v) = %q, want %q", tt.slide, got, tt.want)
		}
	}
}
