package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/backend"
	"github.com/go-playground/validator/v10"
)

// flagValues holds parsed command-line flags.
type flagValues struct {
	apiURL      string
	logFile     string
	debug       bool
	history     int
	timeout     time.Duration
	poll        time.Duration
	stopOnError bool
}

// envValues holds the environment variables the command reads.
type envValues struct {
	apiURL       string
	logFile      string
	otlpEndpoint string
}

type config struct {
	apiURL       string
	logFile      string
	otlpEndpoint string
	debug        bool
	history      int
	timeout      time.Duration
	poll         time.Duration
	stopOnError  bool
}

// resolveConfig merges flags, environment and defaults. Flags take
// precedence over environment variables.
func resolveConfig(f flagValues, env envValues) (config, error) {
	cfg := config{
		apiURL:       firstNonEmpty(f.apiURL, env.apiURL, backend.DefaultBaseURL),
		logFile:      firstNonEmpty(f.logFile, env.logFile),
		otlpEndpoint: env.otlpEndpoint,
		debug:        f.debug,
		history:      f.history,
		timeout:      f.timeout,
		poll:         f.poll,
		stopOnError:  f.stopOnError,
	}
	if err := validateConfig(cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// validateConfig checks resolved values. Fields are unexported, so they
// are copied into an exported mirror for the validator.
func validateConfig(cfg config) error {
	v := struct {
		APIURL  string        `validate:"required,http_url"`
		History int           `validate:"gte=0"`
		Timeout time.Duration `validate:"gte=0"`
		Poll    time.Duration `validate:"gte=0"`
	}{cfg.apiURL, cfg.history, cfg.timeout, cfg.poll}

	if err := validator.New().Struct(v); err != nil {
		return fmt.Errorf("config: %w: %w", ragchat.ErrValidation, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
