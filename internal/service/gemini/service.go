package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/infra/httpclient"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/internal/service/images"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

const (
	DefaultMode        = "office"
	DefaultSlideCount  = 8
	MaxSlideCount      = 30
	DefaultContentType = "general"
	DefaultStyle       = "modern"
	DefaultGradient    = "auto"
	DefaultLanguage    = "English"

	// maxSourceChars bounds the document text sent to the model.
	maxSourceChars = 100000
)

// GenerateRequest describes what the deck should be about and how it should look.
type GenerateRequest struct {
	Topic       string
	Document    string
	Image       []byte
	Mode        string
	SlideCount  int
	ContentType string
	Style       string
	Gradient    string
	Language    string
}

// WithDefaults fills unset fields and clamps the slide count.
func (r GenerateRequest) WithDefaults() GenerateRequest {
	if r.Mode == "" {
		r.Mode = DefaultMode
	}
	if r.SlideCount <= 0 {
		r.SlideCount = DefaultSlideCount
	}
	r.SlideCount = min(r.SlideCount, MaxSlideCount)
	if r.ContentType == "" {
		r.ContentType = DefaultContentType
	}
	if _, ok := styleGuides[r.Style]; !ok {
		r.Style = DefaultStyle
	}
	if _, ok := gradientGuides[r.Gradient]; !ok {
		r.Gradient = DefaultGradient
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
	return r
}

type Service struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *httpclient.Client
	logger     *logger.Logger
}

func New(apiKey, model string, client *httpclient.Client, log *logger.Logger) *Service {
	return &Service{
		apiKey:     apiKey,
		model:      model,
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		httpClient: client,
		logger:     log,
	}
}

// WithBaseURL points the client at a different endpoint, e.g. a proxy.
func (s *Service) WithBaseURL(url string) *Service {
	s.baseURL = url
	return s
}

// GenerateDeck asks the model for a complete deck: title, theme and slides.
func (s *Service) GenerateDeck(ctx context.Context, req GenerateRequest) (*deck.RawDeck, error) {
	req = req.WithDefaults()
	if req.Topic == "" && req.Document == "" && len(req.Image) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidReq, "topic, document or image is required")
	}

	parts := []map[string]interface{}{}
	if len(req.Image) > 0 {
		parts = append(parts, map[string]interface{}{
			"inline_data": map[string]string{
				"mime_type": images.DetectMimeType(req.Image),
				"data":      base64.StdEncoding.EncodeToString(req.Image),
			},
		})
	}
	parts = append(parts, map[string]interface{}{"text": buildPrompt(req)})

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.7,
			"maxOutputTokens":  16384,
			"responseMimeType": "application/json",
		},
	}

	text, err := s.generate(ctx, requestBody)
	if err != nil {
		return nil, err
	}

	raw, err := ParseDeck(text)
	if err != nil {
		s.logger.Error("failed to parse deck JSON", "length", len(text), "error", err)
		return nil, errors.Wrap(err, errors.ErrCodeGeminiAPI, "model returned unparseable deck JSON")
	}
	if raw.Mode == "" {
		raw.Mode = req.Mode
	}
	s.logger.Info("deck generated", "title", raw.Title, "slides", len(raw.Slides), "style", req.Style)
	return raw, nil
}

func (s *Service) generate(ctx context.Context, requestBody map[string]interface{}) (string, error) {
	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)

	resp, err := s.httpClient.PostJSON(ctx, url, bodyBytes)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeGeminiAPI, "gemini API request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("gemini API error", "status", resp.StatusCode, "body", string(respBody))
		return "", errors.New(errors.ErrCodeGeminiAPI, fmt.Sprintf("gemini API returned %d", resp.StatusCode))
	}

	return candidateText(respBody)
}

func candidateText(body []byte) (string, error) {
	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to parse gemini response")
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", errors.New(errors.ErrCodeGeminiAPI, "empty response from gemini")
	}

	text := ""
	for _, p := range response.Candidates[0].Content.Parts {
		text += p.Text
	}
	return text, nil
}
