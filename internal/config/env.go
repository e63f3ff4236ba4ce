package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// EnvPrefix namespaces environment overrides, e.g. ENGAGECHARTS_DATA.
const EnvPrefix = "engagecharts"

// EnvConfig holds settings read from the environment. Empty values are
// treated as unset.
type EnvConfig struct {
	Data     string
	DB       string
	OutDir   string `split_words:"true"`
	LogLevel string `split_words:"true"`
}

// LoadEnv loads dotenvPath into the process environment, without replacing
// variables that are already set, then reads the ENGAGECHARTS_ variables.
// A missing .env file is ignored.
func LoadEnv(dotenvPath string) (EnvConfig, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", dotenvPath).Msg("failed to load .env file")
		}
	}
	var cfg EnvConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Ptr returns a pointer to v, or nil when v is empty, so environment values
// can flow through the same override helpers as TOML values.
func Ptr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
