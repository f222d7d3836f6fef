package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/ChaseRain/deckgen/internal/deck"
	"github.com/ChaseRain/deckgen/internal/infra/config"
	"github.com/ChaseRain/deckgen/internal/infra/logger"
	"github.com/ChaseRain/deckgen/pkg/errors"
	"github.com/ChaseRain/deckgen/pkg/util"
)

// Backend stores opaque objects by slash-separated key.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

type Service struct {
	backend Backend
	baseURL string
	prefix  string
	logger  *logger.Logger
}

// New selects the backend named by cfg.Type. Unknown types fall back to local.
func New(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*Service, error) {
	var backend Backend
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	switch cfg.Type {
	case "s3":
		b, err := newS3Backend(ctx, cfg.Bucket, cfg.Region)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to init s3 storage")
		}
		backend = b
		if baseURL == "" {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	case "local", "":
		backend = newLocalBackend(cfg.BasePath)
	default:
		log.Warn("unknown storage type, using local", "type", cfg.Type)
		backend = newLocalBackend(cfg.BasePath)
	}

	return NewWithBackend(backend, baseURL, cfg.Prefix, log), nil
}

func NewWithBackend(backend Backend, baseURL, prefix string, log *logger.Logger) *Service {
	return &Service{
		backend: backend,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		prefix:  strings.Trim(prefix, "/"),
		logger:  log,
	}
}

// BaseURL is the public prefix of every stored file's URL.
func (s *Service) BaseURL() string {
	return s.baseURL
}

// SaveFile stores data under name and returns its public URL.
func (s *Service) SaveFile(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := s.backend.Put(ctx, name, data, contentType); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorage, "failed to write file")
	}
	url := s.baseURL + "/" + name
	s.logger.Info("saved file", "key", name, "url", url, "size", len(data))
	return url, nil
}

func (s *Service) GetFile(ctx context.Context, name string) ([]byte, error) {
	data, err := s.backend.Get(ctx, name)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorage, "failed to read file")
	}
	return data, nil
}

// FileName maps a public URL produced by SaveFile back to its key.
func (s *Service) FileName(url string) (string, bool) {
	name, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

func (s *Service) SavePPT(ctx context.Context, id string, data []byte) (string, error) {
	return s.SaveFile(ctx, s.key(id+".pptx"), data,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation")
}

// SaveImage stores generated or fetched image bytes under a random name.
func (s *Service) SaveImage(ctx context.Context, data []byte) (string, error) {
	ext := detectExtension(data)
	return s.SaveFile(ctx, s.key("images/"+util.RandomString(16)+ext), data, contentTypes[ext])
}

func (s *Service) SaveDeck(ctx context.Context, id string, d deck.Deck) error {
	data, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode deck")
	}
	if err := s.backend.Put(ctx, s.deckKey(id), data, "application/json"); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorage, "failed to write deck")
	}
	return nil
}

func (s *Service) LoadDeck(ctx context.Context, id string) (deck.Deck, error) {
	data, err := s.backend.Get(ctx, s.deckKey(id))
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return deck.Deck{}, errors.New(errors.ErrCodeNotFound, "deck not found")
		}
		return deck.Deck{}, errors.Wrap(err, errors.ErrCodeStorage, "failed to read deck")
	}
	d, err := deck.Parse(data)
	if err != nil {
		return deck.Deck{}, errors.Wrap(err, errors.ErrCodeStorage, "stored deck is corrupt")
	}
	return d, nil
}

func (s *Service) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

func (s *Service) deckKey(id string) string {
	return s.key(path.Join("json", id+".json"))
}

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".json": "application/json",
	".bin":  "application/octet-stream",
}

func detectExtension(data []byte) string {
	if len(data) < 4 {
		return ".bin"
	}
	// PNG
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return ".png"
	}
	// JPEG
	if data[0] == 0xFF && data[1] == 0xD8 {
		return ".jpg"
	}
	// GIF
	if data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 {
		return ".gif"
	}
	// WebP
	if len(data) >= 12 && data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 {
		return ".webp"
	}
	// PPTX (ZIP)
	if data[0] == 0x50 && data[1] == 0x4B {
		return ".pptx"
	}
	return ".bin"
}

// ContentType guesses a stored file's content type from its extension.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
