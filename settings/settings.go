package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Stdout is the output path that selects standard output.
const Stdout = "-"

// Settings configures one generator run. File settings that
// are relative resolve against Dir.
type Settings struct {
	Dir      string `env:"PRESEED_DIR" envDefault:"."`
	Config   string `env:"PRESEED_CONFIG" envDefault:"config.json"`
	Template string `env:"PRESEED_TEMPLATE" envDefault:"template.cfg"`
	Output   string `env:"PRESEED_OUTPUT" envDefault:"preseed.cfg"`
	LogLevel string `env:"PRESEED_LOG_LEVEL" envDefault:"info"`
}

// Load reads settings from the process environment.
func Load() (*Settings, error) {
	return LoadFrom(nil)
}

// LoadFrom reads settings from environ, or from the process
// environment when environ is nil.
func LoadFrom(environ map[string]string) (*Settings, error) {
	const errCtx = "loading settings"

	cfg := &Settings{}
	if err := env.ParseWithOptions(cfg, env.Options{
		Environment: environ,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return cfg, nil
}

// Validate rejects empty locations and unknown log levels.
func (se *Settings) Validate() error {
	const errCtx = "invalid settings"

	var errs []error

	for name, val := range map[string]string{
		"dir":      se.Dir,
		"config":   se.Config,
		"template": se.Template,
		"output":   se.Output,
	} {
		if strings.TrimSpace(val) == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}

	if _, err := se.Level(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// Level returns the slog level named by LogLevel.
func (se *Settings) Level() (slog.Level, error) {
	switch strings.ToLower(se.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf(
		"log level must be one of: debug, info, warn, error, got %q",
		se.LogLevel,
	)
}

// ConfigPath returns the config file location.
func (se *Settings) ConfigPath() string {
	return se.resolve(se.Config)
}

// TemplatePath returns the template file location.
func (se *Settings) TemplatePath() string {
	return se.resolve(se.Template)
}

// OutputPath returns the output file location, or Stdout.
func (se *Settings) OutputPath() string {
	if se.Output == Stdout {
		return Stdout
	}

	return se.resolve(se.Output)
}

func (se *Settings) resolve(pa string) string {
	if filepath.IsAbs(pa) {
		return pa
	}

	return filepath.Join(se.Dir, pa)
}
