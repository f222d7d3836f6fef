package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	HTTPClient HTTPClientConfig `yaml:"http_client"`
	Limiter    LimiterConfig    `yaml:"limiter"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	ImageGen   ImageGenConfig   `yaml:"image_gen"`
	Storage    StorageConfig    `yaml:"storage"`
	Render     RenderConfig     `yaml:"render"`
}

type ServerConfig struct {
	Addr                string `yaml:"addr"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type HTTPClientConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
	MaxRetries     int `yaml:"max_retries"`
}

type LimiterConfig struct {
	MaxConcurrent int     `yaml:"max_concurrent"`
	RatePerSecond float64 `yaml:"rate_per_second"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type ImageGenConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// StorageConfig selects the backend. Type is "local" or "s3"; Bucket, Region
// and Prefix only apply to s3.
type StorageConfig struct {
	Type     string `yaml:"type"`
	BasePath string `yaml:"base_path"`
	BaseURL  string `yaml:"base_url"`
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Prefix   string `yaml:"prefix"`
}

type RenderConfig struct {
	StrictColors   bool    `yaml:"strict_colors"`
	Workers        int     `yaml:"workers"`
	PreviewPadding float64 `yaml:"preview_padding"`
	ThumbnailWidth int     `yaml:"thumbnail_width"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// .env 与配置文件同目录，可选
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnvOverrides(cfg), nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	return applyEnvOverrides(cfg), nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  30,
			WriteTimeoutSeconds: 300,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTPClient: HTTPClientConfig{
			TimeoutSeconds: 120,
			MaxRetries:     2,
		},
		Limiter: LimiterConfig{
			MaxConcurrent: 10,
			RatePerSecond: 5,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		ImageGen: ImageGenConfig{
			Model: "gemini-2.5-flash-image",
		},
		Storage: StorageConfig{
			Type:     "local",
			BasePath: "./output",
			BaseURL:  "/files",
			Prefix:   "decks",
		},
		Render: RenderConfig{
			Workers:        4,
			PreviewPadding: 40,
			ThumbnailWidth: 960,
		},
	}
}

func applyEnvOverrides(cfg *Config) *Config {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("IMAGEGEN_API_KEY"); v != "" {
		cfg.ImageGen.APIKey = v
	}
	if v := os.Getenv("IMAGEGEN_MODEL"); v != "" {
		cfg.ImageGen.Model = v
	}
	if v := os.Getenv("STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("STORAGE_BASE_PATH"); v != "" {
		cfg.Storage.BasePath = v
	}
	if v := os.Getenv("STORAGE_BASE_URL"); v != "" {
		cfg.Storage.BaseURL = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("STORAGE_REGION"); v != "" {
		cfg.Storage.Region = v
	}
	if v := os.Getenv("RENDER_STRICT_COLORS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Render.StrictColors = b
		}
	}
	if v := os.Getenv("RENDER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Render.Workers = n
		}
	}
	return cfg
}
