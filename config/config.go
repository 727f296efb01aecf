// Package config loads typed configuration from the environment. An
// optional env file is read through viper and exported into the process
// environment first, then envconfig fills the target struct from
// prefixed variables. The pattern keeps twelve-factor deployments and
// local .env development on one code path.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Assistant is the canonical configuration of an intentmesh deployment.
// With prefix "ASSISTANT" the fields map to ASSISTANT_PROVIDER,
// ASSISTANT_MODEL, and so on.
type Assistant struct {
	Provider     string  `default:"openai"`
	Model        string  `default:""`
	Temperature  float64 `default:"0.7"`
	MaxTurns     int     `split_words:"true" default:"5"`
	MemorySize   int     `split_words:"true" default:"10"`
	MemoryTTLMin int     `envconfig:"MEMORY_TTL_MIN" default:"30"`
	MinScore     int     `split_words:"true" default:"0"`
	Debug        bool    `default:"false"`
}

// MustNew loads configuration or panics; intended for main functions.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(err)
	}
	return conf
}

// New loads configuration with the given envconfig prefix. When an env
// file path is supplied via the ASSISTANT_ENV_FILE variable it must
// exist; otherwise a ./.env file is used when present.
func New[T any](prefix string) (*T, error) {
	if path := strings.TrimSpace(os.Getenv("ASSISTANT_ENV_FILE")); path != "" {
		if err := exportEnvironment(path); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(".env"); err != nil {
		return nil, fmt.Errorf("failed to load default env file: %w", err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func exportEnvironmentIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(path)
}

// exportEnvironment reads the file through viper and exports every
// setting into the process environment so envconfig can see it.
func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	for key, value := range v.AllSettings() {
		if err := os.Setenv(strings.ToUpper(key), fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}
