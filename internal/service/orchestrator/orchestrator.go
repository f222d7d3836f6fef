package orchestrator

import (
	"context"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/infra/config"
	"github.com/ChaseRain/deckgen/internal/infra/limiter"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/internal/layout"
	"github.com/ChaseRain/deckgen/internal/service/gemini"
	"github.com/ChaseRain/deckgen/internal/service/imagegen"
	"github.com/ChaseRain/deckgen/internal/service/ppt"
	"github.com/ChaseRain/deckgen/internal/service/preview"
	"github.com/ChaseRain/deckgen/internal/service/storage"
	"github.com/ChaseRain/deckgen/internal/theme"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

// imageWorkers bounds concurrent image generation calls per deck.
const imageWorkers = 3

// DeckGenerator produces deck JSON from a request.
type DeckGenerator interface {
	GenerateDeck(ctx context.Context, req gemini.GenerateRequest) (*deck.RawDeck, error)
}

// ImageGenerator renders a slide image from a prompt.
type ImageGenerator interface {
	GenerateSlideImage(ctx context.Context, prompt, style string) (*imagegen.GeneratedImage, error)
}

type GenerateDeckRequest struct {
	RequestID      string
	Content        gemini.GenerateRequest
	GenerateImages bool
}

type DeckResult struct {
	ID     string       `json:"id"`
	Title  string       `json:"title"`
	PPTURL string       `json:"ppt_url"`
	Slides int          `json:"slides"`
	Issues []deck.Issue `json:"issues,omitempty"`
	Deck   deck.Deck    `json:"deck"`
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Stage    string
	Message  string
	Progress int
	Data     interface{}
}

// ProgressCallback 进度回调函数
type ProgressCallback func(event ProgressEvent)

type Orchestrator struct {
	geminiSvc   DeckGenerator
	imageGenSvc ImageGenerator
	pptSvc      *ppt.Service
	previewSvc  *preview.Service
	storageSvc  *storage.Service
	limiter     *limiter.Limiter
	render      config.RenderConfig
	logger      *logger.Logger
}

func New(
	geminiSvc DeckGenerator,
	imageGenSvc ImageGenerator,
	pptSvc *ppt.Service,
	previewSvc *preview.Service,
	storageSvc *storage.Service,
	lim *limiter.Limiter,
	render config.RenderConfig,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		geminiSvc:   geminiSvc,
		imageGenSvc: imageGenSvc,
		pptSvc:      pptSvc,
		previewSvc:  previewSvc,
		storageSvc:  storageSvc,
		limiter:     lim,
		render:      render,
		logger:      log,
	}
}

// GenerateDeck 同步生成
func (o *Orchestrator) GenerateDeck(ctx context.Context, req *GenerateDeckRequest) (*DeckResult, error) {
	return o.GenerateDeckWithProgress(ctx, req, nil)
}

// GenerateDeckWithProgress 带进度回调的生成
func (o *Orchestrator) GenerateDeckWithProgress(ctx context.Context, req *GenerateDeckRequest, onProgress ProgressCallback) (*DeckResult, error) {
	release, err := o.limiter.Acquire(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeRateLimited, "rate limit exceeded")
	}
	defer release()

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	content := req.Content.WithDefaults()

	emit := func(stage, message string, progress int, data interface{}) {
		if onProgress != nil {
			onProgress(ProgressEvent{
				Stage:    stage,
				Message:  message,
				Progress: progress,
				Data:     data,
			})
		}
	}

	o.logger.Info("starting deck generation",
		"request_id", req.RequestID,
		"mode", content.Mode,
		"style", content.Style,
		"slide_count", content.SlideCount,
	)
	emit("start", "开始生成演示文稿", 0, map[string]string{"id": req.RequestID})

	// Step 1: Generate deck content
	emit("generating", "正在生成幻灯片内容...", 10, nil)

	raw, err := o.geminiSvc.GenerateDeck(ctx, content)
	if err != nil {
		o.logger.Error("failed to generate deck", "request_id", req.RequestID, "error", err)
		return nil, err
	}
	d := deck.FromRaw(*raw)

	emit("generated", "内容生成完成", 40, map[string]interface{}{
		"title":  d.Title,
		"slides": len(d.Slides),
		"theme":  d.Theme.Name,
	})

	// Step 2: Generate slide images
	if req.GenerateImages && o.imageGenSvc != nil {
		emit("images", "正在生成配图...", 50, nil)
		n := o.attachImages(ctx, req.RequestID, &d, content.Style)
		emit("images", "配图生成完成", 65, map[string]int{"images": n})
	}

	// Step 3: Layout and render
	return o.export(ctx, req.RequestID, d, emit)
}

// ExportDeck lays out and exports a client-supplied deck.
func (o *Orchestrator) ExportDeck(ctx context.Context, raw deck.RawDeck) (*DeckResult, error) {
	return o.export(ctx, uuid.NewString(), deck.FromRaw(raw), func(string, string, int, interface{}) {})
}

func (o *Orchestrator) export(ctx context.Context, id string, d deck.Deck, emit func(string, string, int, interface{})) (*DeckResult, error) {
	emit("layout", "正在排版...", 70, nil)

	pages, issues, err := o.LayoutDeck(ctx, d, false)
	if err != nil {
		return nil, err
	}

	emit("rendering", "正在渲染 PPT...", 80, nil)

	pptBytes, err := o.pptSvc.Export(ctx, d.Title, d.Theme, pages)
	if err != nil {
		o.logger.Error("failed to render PPT", "request_id", id, "error", err)
		return nil, err
	}

	emit("rendering", "正在保存文件...", 90, nil)

	url, err := o.storageSvc.SavePPT(ctx, id, pptBytes)
	if err != nil {
		o.logger.Error("failed to save PPT", "request_id", id, "error", err)
		return nil, err
	}
	if err := o.storageSvc.SaveDeck(ctx, id, d); err != nil {
		o.logger.Error("failed to save deck", "request_id", id, "error", err)
		return nil, err
	}

	result := &DeckResult{
		ID:     id,
		Title:  d.Title,
		PPTURL: url,
		Slides: len(pages),
		Issues: issues,
		Deck:   d,
	}

	emit("complete", "生成完成！", 100, result)

	o.logger.Info("deck saved successfully",
		"request_id", id,
		"url", url,
		"slides", len(pages),
	)
	return result, nil
}

// LayoutDeck validates d and lays out every page. Content issues are logged
// and returned, never fatal. Malformed theme colors fail only when strict
// color checking is enabled.
func (o *Orchestrator) LayoutDeck(ctx context.Context, d deck.Deck, compact bool) ([]layout.Page, []deck.Issue, error) {
	if o.render.StrictColors {
		if err := theme.Validate(d.Theme); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrCodeInvalidTheme, "theme has malformed colors")
		}
	}

	issues := deck.Validate(d)
	for _, issue := range issues {
		o.logger.Warn("deck content issue", "slide", issue.Slide, "field", issue.Field, "message", issue.Message)
	}

	pages, err := layout.Deck(ctx, d, compact, o.render.Workers)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeInternal, "layout cancelled")
	}
	return pages, issues, nil
}

func (o *Orchestrator) LoadDeck(ctx context.Context, id string) (deck.Deck, error) {
	return o.storageSvc.LoadDeck(ctx, id)
}

// PreviewOptions sizes a slide preview. A nil Padding means the configured
// preview padding.
type PreviewOptions struct {
	Width   float64
	Height  float64
	Padding *float64
	Compact bool
}

// PreviewSVG writes page index of a stored deck as SVG. Index counts the
// generated title slide.
func (o *Orchestrator) PreviewSVG(ctx context.Context, w io.Writer, id string, index int, opts PreviewOptions) error {
	d, page, err := o.page(ctx, id, index, opts.Compact)
	if err != nil {
		return err
	}
	padding := o.render.PreviewPadding
	if opts.Padding != nil {
		padding = *opts.Padding
	}
	_, err = o.previewSvc.Render(w, d.Title, page.Commands, preview.Options{
		Width:   opts.Width,
		Height:  opts.Height,
		Padding: padding,
	})
	return err
}

// Thumbnail rasterizes page index of a stored deck to PNG.
func (o *Orchestrator) Thumbnail(ctx context.Context, id string, index, width int) ([]byte, error) {
	d, page, err := o.page(ctx, id, index, false)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		width = o.render.ThumbnailWidth
	}
	return o.pptSvc.Thumbnail(ctx, d.Theme, page, width)
}

func (o *Orchestrator) page(ctx context.Context, id string, index int, compact bool) (deck.Deck, layout.Page, error) {
	d, err := o.storageSvc.LoadDeck(ctx, id)
	if err != nil {
		return deck.Deck{}, layout.Page{}, err
	}
	slides := d.Sequence()
	if index < 0 || index >= len(slides) {
		return deck.Deck{}, layout.Page{}, errors.New(errors.ErrCodeNotFound, "slide not found")
	}
	s := slides[index]
	page := layout.Page{
		Index:    index,
		Kind:     s.Kind(),
		Notes:    s.Common().Notes,
		Commands: layout.Slide(s, d.Theme, index, compact),
	}
	return d, page, nil
}

// attachImages generates and stores an image for every slide that asks for
// one. Failures leave the slide without an image.
func (o *Orchestrator) attachImages(ctx context.Context, requestID string, d *deck.Deck, style string) int {
	refs := make([]string, len(d.Slides))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(imageWorkers)
	for i, s := range d.Slides {
		if s == nil || s.Kind() == deck.KindDiagram || s.Common().ImageRef != "" {
			continue
		}
		prompt := imagegen.PromptFor(s)
		if prompt == "" {
			continue
		}
		g.Go(func() error {
			img, err := o.imageGenSvc.GenerateSlideImage(gctx, prompt, style)
			if err != nil {
				o.logger.Warn("failed to generate image, continuing without image",
					"request_id", requestID,
					"slide", i,
					"error", err,
				)
				return nil
			}
			url, err := o.storageSvc.SaveImage(gctx, img.Bytes)
			if err != nil {
				o.logger.Warn("failed to store image", "request_id", requestID, "slide", i, "error", err)
				return nil
			}
			refs[i] = url
			return nil
		})
	}
	// workers log and swallow their own failures
	_ = g.Wait()

	n := 0
	for i, ref := range refs {
		if ref != "" {
			d.Slides[i] = deck.WithImage(d.Slides[i], ref)
			n++
		}
	}
	o.logger.Info("slide images generated", "request_id", requestID, "count", n)
	return n
}
