package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the flashdeck CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - RequestTimeout: per-call timeout for JSON requests.
//   - TransferTimeout: per-call timeout for uploads and exports, which can be
//     much slower than plain JSON calls while the server generates cards.
//   - TokenFile: path of the file the session token is persisted to.
//   - ExportDir: directory exported card files are written into.
//
// Units: timeouts are time.Duration values (e.g., 30*time.Second).
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	TransferTimeout    time.Duration
	TokenFile          string
	ExportDir          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://localhost:8000"
	c.RequestTimeout = 30 * time.Second
	c.TransferTimeout = 120 * time.Second
	c.TokenFile = defaultTokenFile()
	c.ExportDir = "."
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flashdeck_token"
	}
	return filepath.Join(home, ".flashdeck_token")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including a .env file, if present), JSON (if present) and
// command-line flags (if present). Later sources take precedence over earlier
// ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
