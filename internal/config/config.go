package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	ServerPort       string
	StateFile        string
	SoundsEnabled    bool
	ExcludedProtocol string
	BannerInterval   time.Duration
	SoundInterval    time.Duration
}

func LoadConfig() (*Config, error) {
	bannerStr := getEnv("BANNER_INTERVAL", "59s")
	banner, err := time.ParseDuration(bannerStr)
	if err != nil {
		return nil, errors.New("invalid BANNER_INTERVAL format")
	}

	soundStr := getEnv("SOUND_INTERVAL", "5s")
	sound, err := time.ParseDuration(soundStr)
	if err != nil {
		return nil, errors.New("invalid SOUND_INTERVAL format")
	}

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		StateFile:        getEnv("STATE_FILE", defaultStateFile()),
		SoundsEnabled:    getEnv("SOUNDS_ENABLED", "true") != "false",
		ExcludedProtocol: getEnv("EXCLUDED_PROTOCOL", "sip"),
		BannerInterval:   banner,
		SoundInterval:    sound,
	}

	if cfg.StateFile == "" {
		return nil, errors.New("STATE_FILE is required")
	}

	return cfg, nil
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "presenced", "state.yaml")
}

// Helper: get env with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
