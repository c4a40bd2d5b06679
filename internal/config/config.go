package config

import (
	"os"
	"strconv"
)

// Config holds all process configuration, read from the environment once at
// startup. Clients receive it through their constructors and never read the
// environment themselves.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Upstream service endpoints. Overridable so tests can point clients at
	// fake servers.
	GeocodeBaseURL  string
	ForecastBaseURL string

	// Web search
	SearchBaseURL string
	SearchAPIKey  string
	SearchRPS     float64

	// LLM backend
	OllamaHost          string
	OllamaModel         string
	OllamaContextLength int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GeocodeBaseURL:  getEnv("GEOCODE_BASE_URL", "https://geocoding-api.open-meteo.com"),
		ForecastBaseURL: getEnv("FORECAST_BASE_URL", "https://api.open-meteo.com"),

		SearchBaseURL: getEnv("SEARCH_BASE_URL", "https://api.search.brave.com"),
		SearchAPIKey:  getEnv("SEARCH_API_KEY", ""),
		SearchRPS:     getEnvFloat("SEARCH_RPS", 1.0),

		OllamaHost:          getEnv("OLLAMA_HOST", "http://127.0.0.1:11434"),
		OllamaModel:         getEnv("OLLAMA_MODEL", "llama3.1:8b"),
		OllamaContextLength: getEnvInt("OLLAMA_CONTEXT_LENGTH", 8192),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
