package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Candidate .env locations, nearest first
var envPaths = []string{".env", "../.env", "../../.env"}

// LoadDotEnv loads the first .env file found and returns its path, or "" when
// none exists. Variables already set in the environment win.
func LoadDotEnv() string {
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Settings are the environment-driven options shared by the commands
type Settings struct {
	StoragePath    string  // BATTLE_STORAGE_PATH: hot/warm/cold root
	Preset         string  // FEATURE_PRESET
	LowHPThreshold float64 // LOW_HP_THRESHOLD, 0 keeps the preset's value
	PresetsFile    string  // PRESETS_FILE: extra YAML presets
	Workers        int     // EXTRACT_WORKERS, 0 means one per CPU

	SQLitePath     string // SQLITE_PATH
	TursoURL       string // TURSO_DATABASE_URL
	TursoToken     string // TURSO_AUTH_TOKEN
	DatabaseURL    string // DATABASE_URL (Postgres)
	DiscordWebhook string // DISCORD_WEBHOOK_URL

	Port string // PORT
}

// FromEnv reads Settings from the environment
func FromEnv() (*Settings, error) {
	s := &Settings{
		StoragePath:    getenv("BATTLE_STORAGE_PATH"),
		Preset:         getenv("FEATURE_PRESET"),
		PresetsFile:    getenv("PRESETS_FILE"),
		SQLitePath:     getenv("SQLITE_PATH"),
		TursoURL:       getenv("TURSO_DATABASE_URL"),
		TursoToken:     getenv("TURSO_AUTH_TOKEN"),
		DatabaseURL:    getenv("DATABASE_URL"),
		DiscordWebhook: getenv("DISCORD_WEBHOOK_URL"),
		Port:           getenv("PORT"),
	}
	if s.Preset == "" {
		s.Preset = "default"
	}
	if s.Port == "" {
		s.Port = "8080"
	}

	if v := getenv("LOW_HP_THRESHOLD"); v != "" {
		thr, err := strconv.ParseFloat(v, 64)
		if err != nil || thr <= 0 || thr > 1 {
			return nil, fmt.Errorf("LOW_HP_THRESHOLD must be a number in (0,1], got %q", v)
		}
		s.LowHPThreshold = thr
	}
	if v := getenv("EXTRACT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("EXTRACT_WORKERS must be a non-negative integer, got %q", v)
		}
		s.Workers = n
	}
	return s, nil
}

// getenv trims whitespace and surrounding quotes
func getenv(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"")
}
