package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/internal/service/gemini"
	"github.com/ChaseRain/deckgen/internal/service/images"
	"github.com/ChaseRain/deckgen/internal/service/orchestrator"
	"github.com/ChaseRain/deckgen/internal/service/storage"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

type Handler struct {
	orchestrator *orchestrator.Orchestrator
	storage      *storage.Service
	logger       *logger.Logger
}

func NewHandler(orch *orchestrator.Orchestrator, store *storage.Service, log *logger.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		storage:      store,
		logger:       log,
	}
}

func (h *Handler) GenerateDeck(c *gin.Context) {
	var req GenerateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request", "error", err)
		h.handleError(c, "", errors.Wrap(err, errors.ErrCodeInvalidReq, "invalid request body"))
		return
	}

	requestID := req.ClientRequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	var imageBytes []byte
	if req.ImageBase64 != "" {
		var err error
		imageBytes, err = decodeImage(req.ImageBase64)
		if err != nil {
			h.handleError(c, requestID, errors.Wrap(err, errors.ErrCodeInvalidReq, "failed to decode base64 image"))
			return
		}
	}

	if strings.TrimSpace(req.Topic) == "" && strings.TrimSpace(req.Document) == "" && len(imageBytes) == 0 {
		h.handleError(c, requestID, errors.New(errors.ErrCodeInvalidReq, "topic, document or image_base64 is required"))
		return
	}

	orchReq := &orchestrator.GenerateDeckRequest{
		RequestID: requestID,
		Content: gemini.GenerateRequest{
			Topic:       req.Topic,
			Document:    req.Document,
			Image:       imageBytes,
			Mode:        req.Mode,
			SlideCount:  req.SlideCount,
			ContentType: req.ContentType,
			Style:       req.Style,
			Gradient:    req.Gradient,
			Language:    req.Language,
		},
		GenerateImages: req.GenerateImages,
	}

	// 流式输出
	if req.Stream {
		h.handleStreamingResponse(c, requestID, orchReq)
		return
	}

	result, err := h.orchestrator.GenerateDeck(c.Request.Context(), orchReq)
	if err != nil {
		h.handleError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, deckResponse(requestID, result))
}

func (h *Handler) handleStreamingResponse(c *gin.Context, requestID string, req *orchestrator.GenerateDeckRequest) {
	// 设置 SSE headers
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")

	// 发送事件的辅助函数
	sendEvent := func(eventType string, data interface{}) {
		event := StreamEvent{
			Event:     eventType,
			Data:      data,
			RequestID: requestID,
		}
		jsonData, _ := json.Marshal(event)
		fmt.Fprintf(c.Writer, "event: %s\n", eventType)
		fmt.Fprintf(c.Writer, "data: %s\n\n", jsonData)
		c.Writer.Flush()
	}

	// 进度回调
	onProgress := func(event orchestrator.ProgressEvent) {
		switch event.Stage {
		case EventTypeStart:
			sendEvent(EventTypeStart, EventStart{
				Message:   event.Message,
				Timestamp: time.Now().Unix(),
			})
		case EventTypeComplete:
			complete := EventComplete{Message: event.Message}
			if result, ok := event.Data.(*orchestrator.DeckResult); ok {
				complete.DeckID = result.ID
				complete.PPTURL = result.PPTURL
				complete.Title = result.Title
				complete.Slides = result.Slides
				complete.Issues = result.Issues
			}
			sendEvent(EventTypeComplete, complete)
		default:
			sendEvent(event.Stage, EventProgress{
				Message:  event.Message,
				Progress: event.Progress,
				Detail:   event.Data,
			})
		}
	}

	// 执行生成
	_, err := h.orchestrator.GenerateDeckWithProgress(c.Request.Context(), req, onProgress)
	if err != nil {
		h.logger.Error("deck generation failed", "error", err, "request_id", requestID)
		sendEvent(EventTypeError, EventError{
			Code:    errors.CodeOf(err),
			Message: err.Error(),
		})
	}
}

// ExportDeck stores a client-supplied deck and exports it to .pptx.
func (h *Handler) ExportDeck(c *gin.Context) {
	var raw deck.RawDeck
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.handleError(c, "", errors.Wrap(err, errors.ErrCodeInvalidDeck, "invalid deck JSON"))
		return
	}

	result, err := h.orchestrator.ExportDeck(c.Request.Context(), raw)
	if err != nil {
		h.handleError(c, "", err)
		return
	}
	c.JSON(http.StatusOK, deckResponse("", result))
}

// LayoutDeck returns the resolved theme and draw commands for every page.
func (h *Handler) LayoutDeck(c *gin.Context) {
	var raw deck.RawDeck
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.handleError(c, "", errors.Wrap(err, errors.ErrCodeInvalidDeck, "invalid deck JSON"))
		return
	}
	compact, _ := strconv.ParseBool(c.Query("compact"))

	d := deck.FromRaw(raw)
	pages, issues, err := h.orchestrator.LayoutDeck(c.Request.Context(), d, compact)
	if err != nil {
		h.handleError(c, "", err)
		return
	}
	c.JSON(http.StatusOK, LayoutResponse{Theme: d.Theme, Pages: pages, Issues: issues})
}

func (h *Handler) GetDeck(c *gin.Context) {
	id := c.Param("id")
	d, err := h.orchestrator.LoadDeck(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, "", err)
		return
	}
	raw := d.Raw()
	c.JSON(http.StatusOK, DeckResponse{
		Status: StatusSucceeded,
		DeckID: id,
		Meta:   &DeckMeta{Title: d.Title, Theme: d.Theme.Name, Slides: len(d.Sequence())},
		Deck:   &raw,
	})
}

func (h *Handler) PreviewSlide(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.handleError(c, "", errors.New(errors.ErrCodeInvalidReq, "slide index must be an integer"))
		return
	}
	opts := orchestrator.PreviewOptions{
		Width:  queryFloat(c, "width"),
		Height: queryFloat(c, "height"),
	}
	if raw, ok := c.GetQuery("padding"); ok {
		if p, err := strconv.ParseFloat(raw, 64); err == nil && p >= 0 {
			opts.Padding = &p
		}
	}
	opts.Compact, _ = strconv.ParseBool(c.Query("compact"))

	var buf bytes.Buffer
	if err := h.orchestrator.PreviewSVG(c.Request.Context(), &buf, c.Param("id"), index, opts); err != nil {
		h.handleError(c, "", err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (h *Handler) Thumbnail(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.handleError(c, "", errors.New(errors.ErrCodeInvalidReq, "slide index must be an integer"))
		return
	}
	width, _ := strconv.Atoi(c.Query("width"))

	data, err := h.orchestrator.Thumbnail(c.Request.Context(), c.Param("id"), index, width)
	if err != nil {
		h.handleError(c, "", err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// File serves objects from storage, e.g. exported decks and generated images.
func (h *Handler) File(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")
	data, err := h.storage.GetFile(c.Request.Context(), name)
	if err != nil {
		h.handleError(c, "", err)
		return
	}
	c.Data(http.StatusOK, storage.ContentType(name), data)
}

func (h *Handler) handleError(c *gin.Context, requestID string, err error) {
	h.logger.Error("request failed", "error", err, "request_id", requestID, "path", c.Request.URL.Path)

	code := errors.CodeOf(err)
	c.JSON(statusFor(code), DeckResponse{
		RequestID: requestID,
		Status:    StatusFailed,
		Error: &ErrorBody{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func statusFor(code string) int {
	switch code {
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidReq, errors.ErrCodeInvalidDeck, errors.ErrCodeInvalidTheme:
		return http.StatusBadRequest
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeGeminiAPI, errors.ErrCodeImageGenAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func deckResponse(requestID string, result *orchestrator.DeckResult) DeckResponse {
	raw := result.Deck.Raw()
	return DeckResponse{
		RequestID: requestID,
		Status:    StatusSucceeded,
		DeckID:    result.ID,
		PPTURL:    result.PPTURL,
		Meta: &DeckMeta{
			Title:  result.Title,
			Theme:  result.Deck.Theme.Name,
			Slides: result.Slides,
		},
		Issues: result.Issues,
		Deck:   &raw,
	}
}

// 处理 Data URL 格式: data:image/png;base64,xxxxx
func decodeImage(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		data, _, err := images.DecodeDataURL(s)
		return data, err
	}
	return base64.StdEncoding.DecodeString(s)
}

func queryFloat(c *gin.Context, key string) float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
