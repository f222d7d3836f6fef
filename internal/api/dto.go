package api

import (
	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/layout"
	"github.com/ChaseRain/deckgen/internal/theme"
)

type GenerateDeckRequest struct {
	Topic           string `json:"topic"`
	Document        string `json:"document"`
	ImageBase64     string `json:"image_base64"`
	Mode            string `json:"mode"`
	SlideCount      int    `json:"slide_count"`
	ContentType     string `json:"content_type"`
	Style           string `json:"style"`
	Gradient        string `json:"gradient"`
	Language        string `json:"language"`
	GenerateImages  bool   `json:"generate_images"`
	Stream          bool   `json:"stream"`
	ClientRequestID string `json:"client_request_id"`
}

type DeckResponse struct {
	RequestID string        `json:"request_id,omitempty"`
	Status    string        `json:"status"`
	DeckID    string        `json:"deck_id,omitempty"`
	PPTURL    string        `json:"ppt_url,omitempty"`
	Meta      *DeckMeta     `json:"meta,omitempty"`
	Issues    []deck.Issue  `json:"issues,omitempty"`
	Deck      *deck.RawDeck `json:"deck,omitempty"`
	Error     *ErrorBody    `json:"error,omitempty"`
}

type DeckMeta struct {
	Title  string `json:"title,omitempty"`
	Theme  string `json:"theme,omitempty"`
	Slides int    `json:"slides"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LayoutResponse struct {
	Theme  theme.Theme   `json:"theme"`
	Pages  []layout.Page `json:"pages"`
	Issues []deck.Issue  `json:"issues,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// SSE 流式事件类型
type StreamEvent struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
}

// 各阶段事件数据
type EventStart struct {
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type EventProgress struct {
	Message  string      `json:"message"`
	Progress int         `json:"progress"`
	Detail   interface{} `json:"detail,omitempty"`
}

type EventComplete struct {
	Message string       `json:"message"`
	DeckID  string       `json:"deck_id"`
	PPTURL  string       `json:"ppt_url"`
	Title   string       `json:"title"`
	Slides  int          `json:"slides"`
	Issues  []deck.Issue `json:"issues,omitempty"`
}

type EventError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"

	// SSE 事件类型
	EventTypeStart      = "start"
	EventTypeGenerating = "generating"
	EventTypeGenerated  = "generated"
	EventTypeImages     = "images"
	EventTypeLayout     = "layout"
	EventTypeRendering  = "rendering"
	EventTypeComplete   = "complete"
	EventTypeError      = "error"
)
