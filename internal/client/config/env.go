package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first, without overriding variables
// that are already set.
//
// Recognized variables:
//
//	FLASHDECK_API_URL          base URL of the backend
//	FLASHDECK_REQUEST_TIMEOUT  duration, e.g. "30s"
//	FLASHDECK_TRANSFER_TIMEOUT duration, e.g. "2m"
//	FLASHDECK_TOKEN_FILE       session token file path
//	FLASHDECK_EXPORT_DIR       export target directory
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("FLASHDECK_API_URL"); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv("FLASHDECK_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("FLASHDECK_TRANSFER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TransferTimeout = d
		}
	}
	if v := os.Getenv("FLASHDECK_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("FLASHDECK_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
}
