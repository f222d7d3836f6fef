package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/ChaseRain/deckgen/internal/infra/httpclient"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/pkg/errors"
)

// MaxImageBytes caps remote downloads.
const MaxImageBytes = 20 << 20

// FileStore reads files previously written by the storage service.
type FileStore interface {
	FileName(url string) (string, bool)
	GetFile(ctx context.Context, name string) ([]byte, error)
}

// Resolver loads slide images from data URLs, stored files or remote URLs.
type Resolver struct {
	httpClient *httpclient.Client
	files      FileStore
	logger     *logger.Logger
}

func NewResolver(client *httpclient.Client, files FileStore, log *logger.Logger) *Resolver {
	return &Resolver{
		httpClient: client,
		files:      files,
		logger:     log,
	}
}

// Resolve returns the image bytes and MIME type behind ref.
func (r *Resolver) Resolve(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, "", errors.New(errors.ErrCodeImageFetch, "empty image reference")
	case strings.HasPrefix(ref, "data:"):
		return DecodeDataURL(ref)
	}

	if r.files != nil {
		if name, ok := r.files.FileName(ref); ok {
			data, err := r.files.GetFile(ctx, name)
			if err != nil {
				return nil, "", errors.Wrap(err, errors.ErrCodeImageFetch, "failed to read stored image")
			}
			return data, DetectMimeType(data), nil
		}
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return r.fetch(ctx, ref)
	}
	return nil, "", errors.New(errors.ErrCodeImageFetch, "unsupported image reference")
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, string, error) {
	if r.httpClient == nil {
		return nil, "", errors.New(errors.ErrCodeImageFetch, "remote images disabled")
	}
	resp, err := r.httpClient.Get(ctx, url)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeImageFetch, "image download failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", errors.New(errors.ErrCodeImageFetch, fmt.Sprintf("image download returned %d", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeImageFetch, "failed to read image body")
	}
	if len(data) > MaxImageBytes {
		return nil, "", errors.New(errors.ErrCodeImageFetch, "image too large")
	}

	mimeType := DetectMimeType(data)
	if ct, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && strings.HasPrefix(ct, "image/") {
		mimeType = ct
	}
	r.logger.Debug("image downloaded", "url", url, "size", len(data), "mime", mimeType)
	return data, mimeType, nil
}

// DecodeDataURL parses "data:<mime>;base64,<payload>".
func DecodeDataURL(ref string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, "", errors.New(errors.ErrCodeImageFetch, "malformed data URL")
	}
	mimeType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", errors.New(errors.ErrCodeImageFetch, "data URL is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeImageFetch, "failed to decode data URL")
	}
	if mimeType == "" {
		mimeType = DetectMimeType(data)
	}
	return data, mimeType, nil
}

// EncodeDataURL is the inverse of DecodeDataURL.
func EncodeDataURL(data []byte) string {
	return "data:" + DetectMimeType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DetectMimeType sniffs common image formats, defaulting to JPEG.
func DetectMimeType(data []byte) string {
	if len(data) < 4 {
		return "application/octet-stream"
	}

	if data[0] == 0xFF && data[1] == 0xD8 {
		return "image/jpeg"
	}
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	if data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 {
		return "image/gif"
	}
	if data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 {
		return "image/webp"
	}

	return "image/jpeg"
}
