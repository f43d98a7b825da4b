package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yourusername/wish-sky/internal/sky"
	"gopkg.in/yaml.v3"
)

// Config is the YAML file shared by the server and the client. Every section is optional.
type Config struct {
	Sky    sky.Config   `yaml:"sky"`
	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
}

// ClientConfig tunes the terminal client
type ClientConfig struct {
	ServerURL     string  `yaml:"server_url"`
	Transport     string  `yaml:"transport"` // "http" or "ws"
	Renderer      string  `yaml:"renderer"`  // "tea" or "termloop"
	SeedRecent    int     `yaml:"seed_recent"`
	SeedRandom    int     `yaml:"seed_random"`
	MaxTextLength int     `yaml:"max_text_length"`
	Optimistic    bool    `yaml:"optimistic"`
	CellAspect    float64 `yaml:"cell_aspect"`
	InputHeight   int     `yaml:"input_height"`
	Stars         int     `yaml:"stars"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// ServerConfig tunes the wish store service
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxWishLength int    `yaml:"max_wish_length"`
	MaxStored     int    `yaml:"max_stored"` // 0 keeps everything
}

// Default returns the built-in configuration
func Default() Config {
	ctrl := sky.DefaultControllerConfig()
	return Config{
		Sky: sky.DefaultConfig(),
		Client: ClientConfig{
			ServerURL:      "http://localhost:8080",
			Transport:      "http",
			Renderer:       "tea",
			SeedRecent:     ctrl.SeedRecent,
			SeedRandom:     ctrl.SeedRandom,
			MaxTextLength:  ctrl.MaxTextLength,
			CellAspect:     sky.DefaultMeasurer().CellAspect,
			InputHeight:    3,
			Stars:          60,
			RequestTimeout: 5 * time.Second,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			MaxWishLength: 80,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the client or server cannot run with
func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Client.Transport) {
	case "http", "ws":
	default:
		errs = append(errs, fmt.Errorf("client.transport must be http or ws, got %q", c.Client.Transport))
	}
	switch strings.ToLower(c.Client.Renderer) {
	case "tea", "termloop":
	default:
		errs = append(errs, fmt.Errorf("client.renderer must be tea or termloop, got %q", c.Client.Renderer))
	}
	if c.Client.MaxTextLength < 1 {
		errs = append(errs, errors.New("client.max_text_length must be positive"))
	}
	if c.Server.MaxWishLength < 1 {
		errs = append(errs, errors.New("server.max_wish_length must be positive"))
	}
	if c.Server.MaxStored < 0 {
		errs = append(errs, errors.New("server.max_stored must not be negative"))
	}
	return errors.Join(errs...)
}

// Controller builds the lifecycle controller settings
func (c ClientConfig) Controller() sky.ControllerConfig {
	return sky.ControllerConfig{
		MaxTextLength: c.MaxTextLength,
		SeedRecent:    c.SeedRecent,
		SeedRandom:    c.SeedRandom,
		Optimistic:    c.Optimistic,
	}
}

// Measurer builds the text measurer for the configured cell aspect
func (c ClientConfig) Measurer() sky.TextMeasurer {
	m := sky.DefaultMeasurer()
	if c.CellAspect > 0 {
		m.CellAspect = c.CellAspect
	}
	return m
}
