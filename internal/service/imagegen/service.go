package imagegen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/infra/httpclient"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

type GeneratedImage struct {
	Bytes    []byte
	MimeType string
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

// WithBaseURL points the client at a different endpoint.
func (s *Service) WithBaseURL(url string) *Service {
	s.baseURL = url
	return s
}

// PromptFor picks the image description for a slide: its imagePrompt, else a
// prompt built from its imageKeyword and title. Empty means no image wanted.
func PromptFor(s deck.Slide) string {
	if s == nil {
		return ""
	}
	b := s.Common()
	if p := strings.TrimSpace(b.ImagePrompt); p != "" {
		return p
	}
	if kw := strings.TrimSpace(b.ImageKeyword); kw != "" {
		return fmt.Sprintf("A photograph of %s, illustrating %q", kw, b.Title)
	}
	return ""
}

// GenerateSlideImage renders a 16:9 background illustration for a slide.
func (s *Service) GenerateSlideImage(ctx context.Context, prompt, style string) (*GeneratedImage, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New(errors.ErrCodeInvalidReq, "image prompt is empty")
	}
	enhancedPrompt := s.buildImagePrompt(prompt, style)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"text": enhancedPrompt,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"TEXT", "IMAGE"},
		},
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal request")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)

	resp, err := s.httpClient.PostJSON(ctx, url, bodyBytes)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeImageGenAPI, "image generation API request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read response")
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("image gen API error", "status", resp.StatusCode, "body", string(respBody))
		return nil, errors.New(errors.ErrCodeImageGenAPI, fmt.Sprintf("image generation API returned %d", resp.StatusCode))
	}

	return s.parseResponse(respBody)
}

func (s *Service) buildImagePrompt(prompt, style string) string {
	if style == "" {
		style = "modern"
	}
	return fmt.Sprintf(`Generate a high-quality background image for a presentation slide.

Requirements:
- Aspect ratio: 16:9
- Style: %s, professional, cinematic lighting
- NO text, letters, words, or numbers in the image
- Leave calm areas where slide text can sit on top
- High contrast, visually striking

Description: %s`, style, prompt)
}

func (s *Service) parseResponse(body []byte) (*GeneratedImage, error) {
	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text       string `json:"text,omitempty"`
					InlineData *struct {
						MimeType string `json:"mimeType"`
						Data     string `json:"data"`
					} `json:"inlineData,omitempty"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to parse image gen response")
	}

	if len(response.Candidates) == 0 {
		return nil, errors.New(errors.ErrCodeImageGenAPI, "empty response from image generation")
	}

	for _, part := range response.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			imageBytes, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to decode image data")
			}
			return &GeneratedImage{Bytes: imageBytes, MimeType: part.InlineData.MimeType}, nil
		}
	}

	return nil, errors.New(errors.ErrCodeImageGenAPI, "no image in response")
}
