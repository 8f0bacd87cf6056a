// Package config loads travelsnap settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults ([Default]).
//  2. A TOML file, either named with --config or travelsnap.toml in the
//     working directory when present.
//  3. Environment variables for secrets and deployment addresses.
//
// Example file:
//
//	[server]
//	addr = ":5000"
//	allowed_origin = "https://travelsnap.example"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[composite]
//	height_fraction = 0.55
//	anchor = "centered"
//
//	[composite.finish]
//	saturation = 1.1
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/core/depth"
	"github.com/draddo11/Holiday/pkg/core/encode"
	"github.com/draddo11/Holiday/pkg/core/finish"
	"github.com/draddo11/Holiday/pkg/core/place"
	apperr "github.com/draddo11/Holiday/pkg/errors"
	"github.com/draddo11/Holiday/pkg/integrations/gemini"
	"github.com/draddo11/Holiday/pkg/integrations/replicate"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "travelsnap.toml"

// Environment variables consulted after the file is decoded.
const (
	EnvReplicateToken = "REPLICATE_API_TOKEN"
	EnvSerpAPIKey     = "SERPAPI_API_KEY"
	EnvGeminiKey      = "GEMINI_API_KEY"
	EnvAddr           = "TRAVELSNAP_ADDR"
	EnvRedisAddr      = "TRAVELSNAP_REDIS_ADDR"
)

// Cache backends.
const (
	CacheNone   = cache.BackendNone
	CacheFile   = cache.BackendFile
	CacheMemory = cache.BackendMemory
	CacheRedis  = cache.BackendRedis
)

// Config is the full settings tree.
type Config struct {
	Server    Server    `toml:"server"`
	Cache     Cache     `toml:"cache"`
	Replicate Replicate `toml:"replicate"`
	SerpAPI   SerpAPI   `toml:"serpapi"`
	Gemini    Gemini    `toml:"gemini"`
	Composite Composite `toml:"composite"`
}

// Server configures the HTTP API.
type Server struct {
	Addr          string        `toml:"addr"`
	ReadTimeout   time.Duration `toml:"read_timeout"`
	WriteTimeout  time.Duration `toml:"write_timeout"`
	AllowedOrigin string        `toml:"allowed_origin"`
	// MaxBodyBytes bounds request bodies; uploads arrive as data URIs.
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend     string        `toml:"backend"`
	Dir         string        `toml:"dir"`
	RedisAddr   string        `toml:"redis_addr"`
	RedisPrefix string        `toml:"redis_prefix"`
	TTL         time.Duration `toml:"ttl"`
}

// Replicate configures the hosted model client.
type Replicate struct {
	Token          string        `toml:"token"`
	MinInterval    time.Duration `toml:"min_interval"`
	RemoverModel   string        `toml:"remover_model"`
	GeneratorModel string        `toml:"generator_model"`
	Timeout        time.Duration `toml:"timeout"`
}

// SerpAPI configures search lookups.
type SerpAPI struct {
	APIKey string        `toml:"api_key"`
	TTL    time.Duration `toml:"ttl"`
}

// Gemini configures the language and image models.
type Gemini struct {
	APIKey      string   `toml:"api_key"`
	TextModel   string   `toml:"text_model"`
	ImageModels []string `toml:"image_models"`
}

// Composite holds the defaults applied to composite requests that leave a
// field unset.
type Composite struct {
	HeightFraction float64       `toml:"height_fraction"`
	Anchor         string        `toml:"anchor"`
	MarginFraction float64       `toml:"margin_fraction"`
	Format         string        `toml:"format"`
	Quality        int           `toml:"quality"`
	Depth          depth.Params  `toml:"depth"`
	Finish         finish.Params `toml:"finish"`
}

// Default returns the built-in settings.
func Default() *Config {
	dir, err := cache.DefaultDir()
	if err != nil {
		dir = ""
	}
	return &Config{
		Server: Server{
			Addr:          ":5000",
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  120 * time.Second,
			AllowedOrigin: "*",
			MaxBodyBytes:  25 << 20,
		},
		Cache: Cache{
			Backend:     CacheMemory,
			Dir:         dir,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "travelsnap:",
			TTL:         cache.TTLArtifact,
		},
		Replicate: Replicate{
			MinInterval:    2 * time.Second,
			RemoverModel:   replicate.BackgroundRemover,
			GeneratorModel: replicate.BackgroundRemover,
			Timeout:        60 * time.Second,
		},
		SerpAPI: SerpAPI{TTL: cache.TTLSearch},
		Gemini: Gemini{
			TextModel:   gemini.DefaultTextModel,
			ImageModels: append([]string(nil), gemini.DefaultImageModels...),
		},
		Composite: Composite{
			HeightFraction: 0.6,
			Anchor:         string(place.Bottom),
			MarginFraction: 0.05,
			Format:         string(encode.PNG),
			Quality:        encode.DefaultJPEGQuality,
			Depth:          depth.DefaultParams(),
			Finish:         finish.DefaultParams(),
		},
	}
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path reads DefaultFile if it exists; a named file
// that does not exist is an error.
func Load(path string) (*Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.decodeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg.applyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Replicate.Token, EnvReplicateToken)
	set(&c.SerpAPI.APIKey, EnvSerpAPIKey)
	set(&c.Gemini.APIKey, EnvGeminiKey)
	set(&c.Server.Addr, EnvAddr)
	if v := strings.TrimSpace(getenv(EnvRedisAddr)); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = CacheRedis
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "server timeouts must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "server.max_body_bytes must be positive")
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return apperr.New(apperr.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "unknown cache.backend %q (want none, file, memory or redis)", c.Cache.Backend)
	}

	if c.Replicate.MinInterval < 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "replicate.min_interval must not be negative")
	}
	if c.Replicate.RemoverModel == "" || c.Replicate.GeneratorModel == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "replicate models must be set")
	}
	if len(c.Gemini.ImageModels) == 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "gemini.image_models must list at least one model")
	}

	comp := c.Composite
	if err := apperr.ValidateFraction("composite.height_fraction", comp.HeightFraction); err != nil {
		return err
	}
	if _, err := place.ParseAnchor(comp.Anchor); err != nil {
		return err
	}
	if comp.MarginFraction < 0 || comp.MarginFraction >= 1 {
		return apperr.New(apperr.ErrCodeInvalidInput, "composite.margin_fraction must be in [0, 1), got %g", comp.MarginFraction)
	}
	if _, err := encode.ParseFormat(comp.Format); err != nil {
		return err
	}
	if comp.Quality < 1 || comp.Quality > 100 {
		return apperr.New(apperr.ErrCodeInvalidInput, "composite.quality must be in [1, 100], got %d", comp.Quality)
	}
	if err := comp.Depth.Validate(); err != nil {
		return err
	}
	return comp.Finish.Validate()
}
