package config

import "time"

// Config holds runtime settings for the dashboard CLI.
//
// Fields:
//   - ServerURL: base URL of the agency API.
//   - RequestTimeout: upper bound for a single API call.
//   - AgencyEmail: reply address used by the local "draft" command.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	AgencyEmail    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.RequestTimeout = 10 * time.Second
	c.AgencyEmail = "agency@shipagency.local"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
