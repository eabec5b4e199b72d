package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Realtime RealtimeConfig
	Scanner  ScannerConfig
	Receipt  ReceiptConfig
	Storage  StorageConfig
}

type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type RealtimeConfig struct {
	URL string
}

type ScannerConfig struct {
	Cooldown      time.Duration
	FrameInterval time.Duration
}

type ReceiptConfig struct {
	OutputDir string
}

type StorageConfig struct {
	ScanLogPath string // SQLite database for the local scan journal
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "https://api.eventtix.example.com"),
			Token:   getEnv("API_TOKEN", ""),
			Timeout: getEnvAsDuration("API_TIMEOUT", 30*time.Second),
		},
		Realtime: RealtimeConfig{
			URL: getEnv("REALTIME_URL", "wss://api.eventtix.example.com/live"),
		},
		Scanner: ScannerConfig{
			Cooldown:      getEnvAsDuration("SCANNER_COOLDOWN", 3*time.Second),
			FrameInterval: getEnvAsDuration("SCANNER_FRAME_INTERVAL", 200*time.Millisecond),
		},
		Receipt: ReceiptConfig{
			OutputDir: getEnv("RECEIPT_OUTPUT_DIR", "."),
		},
		Storage: StorageConfig{
			ScanLogPath: getEnv("SCAN_LOG_PATH", "checkin.db"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
