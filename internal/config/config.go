// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads trial-matcher settings. Values come from built-in
// defaults, then a YAML config file, then TRIAL_MATCHER_* environment
// variables (a .env file may supply the latter).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/trial-matcher/pkg/types"
)

const (
	// Name is the config file base name searched for in the config paths.
	Name = "trial-matcher"

	// EnvPrefix prefixes every environment override, e.g.
	// TRIAL_MATCHER_MATCH_MAX_RESULTS.
	EnvPrefix = "TRIAL_MATCHER"
)

// Defaults returns the configuration used when nothing overrides it.
func Defaults() types.Config {
	return types.Config{
		Log: types.LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads the configuration. cfgFile names an explicit config file; when
// empty, trial-matcher.yaml is searched for in the working directory and
// ~/.config/trial-matcher/, and a missing file is not an error. The returned
// string is the config file actually used, or "".
func Load(cfgFile string) (types.Config, string, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("match.max_results", d.Match.MaxResults)
	v.SetDefault("match.condition_boost", d.Match.ConditionBoost)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return types.Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := validator.New().Struct(cfg); err != nil {
		return types.Config{}, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

// LoadDotEnv exports the variables in path into the process environment.
// Variables already set are left alone, and a missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
