// Package config loads server settings from an optional TOML file with
// environment variable overrides.
package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	ListenAddr      string `toml:"listen_addr"`
	BaseURL         string `toml:"base_url"`
	APIKey          string `toml:"api_key"`
	Model           string `toml:"model"`
	DBPath          string `toml:"db_path"`
	StaticDir       string `toml:"static_dir"`
	DefaultLanguage string `toml:"default_language"`
	DefaultPersona  string `toml:"default_persona"`
	SpeechCommand   string `toml:"speech_command"`
}

func Default() Config {
	return Config{
		ListenAddr:      ":8100",
		BaseURL:         "https://api.openai.com/v1",
		Model:           "gpt-4o",
		DBPath:          "chatter.db",
		StaticDir:       "web",
		DefaultLanguage: "fr",
		DefaultPersona:  "pragmaticCoach",
	}
}

// Load reads configuration in increasing precedence: built-in defaults, the
// TOML file at path (or CHATTER_CONFIG, or chatter.toml), then environment
// variables. A .env file in the working directory is loaded first so local
// setups can keep the API key out of the shell profile.
func Load(path string, logger *zap.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not load .env file", zap.Error(err))
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("CHATTER_CONFIG")
	}
	if path == "" {
		path = "chatter.toml"
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	override(&cfg.ListenAddr, "CHATTER_LISTEN_ADDR")
	override(&cfg.BaseURL, "OPENAI_BASE_URL")
	override(&cfg.APIKey, "OPENAI_API_KEY")
	override(&cfg.Model, "CHATTER_MODEL")
	override(&cfg.DBPath, "CHATTER_DB")
	override(&cfg.StaticDir, "CHATTER_STATIC_DIR")
	override(&cfg.DefaultLanguage, "CHATTER_LANG")
	override(&cfg.DefaultPersona, "CHATTER_PERSONA")
	override(&cfg.SpeechCommand, "CHATTER_SPEECH_CMD")

	return cfg, nil
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
