// Package config resolves the blog's configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidAddr        = errors.New("server.addr is required")
	ErrInvalidLogLevel    = errors.New("log.level must be one of: debug, info, warn, error")
	ErrInvalidTimeout     = errors.New("contentful.timeout must not be negative")
	ErrInvalidPreviewTTL  = errors.New("preview.ttl must be positive")
	ErrUnsupportedFormat  = errors.New("config file must be .yaml, .yml or .toml")
	ErrInvalidEnvironment = errors.New("app environment must not be blank")
)

// Environment variable names.
const (
	EnvSpaceID            = "CONTENTFUL_SPACE_ID"
	EnvAccessToken        = "CONTENTFUL_ACCESS_TOKEN"
	EnvPreviewAccessToken = "CONTENTFUL_PREVIEW_ACCESS_TOKEN"
	EnvEnvironment        = "CONTENTFUL_ENVIRONMENT"
	EnvHost               = "CONTENTFUL_HOST"
	EnvPreviewHost        = "CONTENTFUL_PREVIEW_HOST"
	EnvTimeout            = "CONTENTFUL_TIMEOUT"
	EnvPreviewMode        = "CONTENTFUL_PREVIEW_MODE"
	EnvVercelEnv          = "VERCEL_ENV"
	EnvPublicVercelEnv    = "NEXT_PUBLIC_VERCEL_ENV"
	EnvAppEnv             = "APP_ENV"
	EnvAppAddr            = "APP_ADDR"
	EnvPreviewSecret      = "PREVIEW_SECRET"
	EnvPreviewSecretHash  = "PREVIEW_SECRET_HASH"
	EnvSessionSecret      = "SESSION_SECRET"
	EnvDataDir            = "DATA_DIR"
	EnvLogLevel           = "LOG_LEVEL"
)

const (
	DefaultEnvironment = "master"
	DefaultAddr        = ":8080"
	DefaultDataDir     = "data/badger"
	DefaultLogLevel    = "info"
	DefaultAppEnv      = "development"
	DefaultTimeout     = 10 * time.Second
	DefaultPreviewTTL  = time.Hour
)

// Config represents the complete site configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Contentful ContentfulConfig `yaml:"contentful" toml:"contentful"`
	Preview    PreviewConfig    `yaml:"preview" toml:"preview"`
	Store      StoreConfig      `yaml:"store" toml:"store"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr        string `yaml:"addr" toml:"addr"`
	Environment string `yaml:"environment" toml:"environment"`
}

// ContentfulConfig selects the space, credentials and hosts of the CMS.
type ContentfulConfig struct {
	SpaceID            string        `yaml:"space_id" toml:"space_id"`
	AccessToken        string        `yaml:"access_token" toml:"access_token"`
	PreviewAccessToken string        `yaml:"preview_access_token" toml:"preview_access_token"`
	Environment        string        `yaml:"environment" toml:"environment"`
	Host               string        `yaml:"host" toml:"host"`
	PreviewHost        string        `yaml:"preview_host" toml:"preview_host"`
	Timeout            time.Duration `yaml:"timeout" toml:"timeout"`
}

// PreviewConfig controls preview mode.
type PreviewConfig struct {
	// Enabled is the preview flag derived from the environment indicators.
	Enabled       bool          `yaml:"enabled" toml:"enabled"`
	Secret        string        `yaml:"secret" toml:"secret"`
	SecretHash    string        `yaml:"secret_hash" toml:"secret_hash"`
	SessionSecret string        `yaml:"session_secret" toml:"session_secret"`
	TTL           time.Duration `yaml:"ttl" toml:"ttl"`
}

// StoreConfig locates the badger data directory.
type StoreConfig struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        DefaultAddr,
			Environment: DefaultAppEnv,
		},
		Contentful: ContentfulConfig{
			Environment: DefaultEnvironment,
			Timeout:     DefaultTimeout,
		},
		Preview: PreviewConfig{
			TTL: DefaultPreviewTTL,
		},
		Store: StoreConfig{Dir: DefaultDataDir},
		Log:   LogConfig{Level: DefaultLogLevel},
	}
}

// Load resolves configuration from an optional .env file, an optional config
// file and the process environment, in increasing precedence.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

func (c *Config) applyEnv(lookup LookupFunc) {
	getEnv := func(key string, target *string) {
		if v, ok := lookup(key); ok && v != "" {
			*target = v
		}
	}

	getEnv(EnvSpaceID, &c.Contentful.SpaceID)
	getEnv(EnvAccessToken, &c.Contentful.AccessToken)
	getEnv(EnvPreviewAccessToken, &c.Contentful.PreviewAccessToken)
	getEnv(EnvEnvironment, &c.Contentful.Environment)
	getEnv(EnvHost, &c.Contentful.Host)
	getEnv(EnvPreviewHost, &c.Contentful.PreviewHost)
	getEnv(EnvAppAddr, &c.Server.Addr)
	getEnv(EnvAppEnv, &c.Server.Environment)
	getEnv(EnvPreviewSecret, &c.Preview.Secret)
	getEnv(EnvPreviewSecretHash, &c.Preview.SecretHash)
	getEnv(EnvSessionSecret, &c.Preview.SessionSecret)
	getEnv(EnvDataDir, &c.Store.Dir)
	getEnv(EnvLogLevel, &c.Log.Level)

	if v, ok := lookup(EnvTimeout); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Contentful.Timeout = d
		}
	}

	if preview, ok := PreviewFromEnv(lookup); ok {
		c.Preview.Enabled = preview
	}
}

// PreviewFromEnv checks the preview indicators in precedence order. The first
// indicator that is set decides; ok is false when none is set.
func PreviewFromEnv(lookup LookupFunc) (preview bool, ok bool) {
	indicators := []struct {
		key   string
		value string
	}{
		{EnvPreviewMode, "true"},
		{EnvVercelEnv, "preview"},
		{EnvPublicVercelEnv, "preview"},
		{EnvAppEnv, "preview"},
	}
	for _, ind := range indicators {
		v, set := lookup(ind.key)
		v = strings.TrimSpace(v)
		if !set || v == "" {
			continue
		}
		return strings.EqualFold(v, ind.value), true
	}
	return false, false
}

// Validate checks the configuration for malformed values. Missing CMS
// credentials are not an error; the CMS is simply treated as unavailable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return ErrInvalidAddr
	}
	if strings.TrimSpace(c.Server.Environment) == "" {
		return ErrInvalidEnvironment
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	if c.Contentful.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Preview.TTL <= 0 {
		return ErrInvalidPreviewTTL
	}
	if c.Contentful.Environment == "" {
		c.Contentful.Environment = DefaultEnvironment
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// HasDeliveryCredentials reports whether the delivery API can be used.
func (c *ContentfulConfig) HasDeliveryCredentials() bool {
	return c.SpaceID != "" && c.AccessToken != ""
}

// HasPreviewCredentials reports whether the preview API can be used.
func (c *ContentfulConfig) HasPreviewCredentials() bool {
	return c.SpaceID != "" && c.PreviewAccessToken != ""
}

// Presence reports which CMS variables are set without disclosing values.
func (c *Config) Presence() map[string]string {
	flag := func(v string) string {
		if v != "" {
			return "set"
		}
		return "not set"
	}
	return map[string]string{
		EnvSpaceID:            flag(c.Contentful.SpaceID),
		EnvAccessToken:        flag(c.Contentful.AccessToken),
		EnvPreviewAccessToken: flag(c.Contentful.PreviewAccessToken),
		EnvPreviewSecret:      flag(c.Preview.Secret + c.Preview.SecretHash),
		EnvSessionSecret:      flag(c.Preview.SessionSecret),
		EnvEnvironment:        c.Contentful.Environment,
	}
}
