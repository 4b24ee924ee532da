package main

import (
	"os"
	"strconv"

	"lg/vital-balance-go-api/internal/store"
)

// config is everything main reads from the environment.
type config struct {
	Port          string
	TimeZone      string
	Store         store.Config
	OpenAIBaseURL string
	OpenAIModel   string
	Realtime      bool
}

func loadConfig() config {
	return config{
		Port:     getEnv("PORT", "3000"),
		TimeZone: getEnv("TZ_NAME", "UTC"),
		Store: store.Config{
			Backend:       getEnv("STORE", "postgres"),
			DBURL:         os.Getenv("DB_URL"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvInt("REDIS_DB", 0),
		},
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		Realtime:      getEnvBool("REALTIME", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
