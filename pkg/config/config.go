// Package config loads the YAML configuration shared by the server and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpfielding/img2dcm/pkg/convert"
	"github.com/jpfielding/img2dcm/pkg/dicom/uid"
	"github.com/jpfielding/img2dcm/pkg/logging"
)

// Config is the complete application configuration
type Config struct {
	Server     Server           `yaml:"server"`
	Conversion Conversion       `yaml:"conversion"`
	Defaults   convert.Defaults `yaml:"defaults"`
	Log        logging.Config   `yaml:"log"`
}

// Server configures the HTTP listener
type Server struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// Conversion configures the encoder and worker pool
type Conversion struct {
	Workers   int    `yaml:"workers"`
	MaxPixels int    `yaml:"max_pixels"`
	UIDRoot   string `yaml:"uid_root"`

	convert.EncoderConfig `yaml:",inline"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Server: Server{
			Addr: ":8765",
			AllowedOrigins: []string{
				"http://64.227.187.164",
				"http://localhost:3000",
				"http://157.245.86.199",
			},
			MaxUploadBytes: 64 << 20,
			ReadTimeout:    60 * time.Second,
			WriteTimeout:   120 * time.Second,
		},
		Conversion: Conversion{
			Workers:       runtime.NumCPU(),
			MaxPixels:     50_000_000,
			UIDRoot:       uid.DefaultRoot,
			EncoderConfig: convert.DefaultEncoderConfig(),
		},
		Defaults: convert.NewDefaults(),
		Log: logging.Config{
			Level:      "INFO",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes))
	}
	if c.Conversion.Workers <= 0 {
		errs = append(errs, fmt.Errorf("conversion.workers must be positive, got %d", c.Conversion.Workers))
	}
	if c.Conversion.MaxPixels < 0 {
		errs = append(errs, fmt.Errorf("conversion.max_pixels must not be negative, got %d", c.Conversion.MaxPixels))
	}
	if _, err := uid.NewGenerator(c.Conversion.UIDRoot); err != nil {
		errs = append(errs, fmt.Errorf("conversion.uid_root: %w", err))
	}
	if c.Conversion.ImplementationClassUID != "" && !uid.IsValid(c.Conversion.ImplementationClassUID) {
		errs = append(errs, fmt.Errorf("conversion.implementation_class_uid %q is not a valid uid", c.Conversion.ImplementationClassUID))
	}
	if len(c.Conversion.ImplementationVersionName) > 16 {
		errs = append(errs, fmt.Errorf("conversion.implementation_version_name exceeds 16 characters"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); c.Log.Level != "" && err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}
