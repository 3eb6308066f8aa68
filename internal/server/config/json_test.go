package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"http_addr":               ":8080",
		"grpc_addr":               ":9090",
		"database_dsn":            "memory",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "12h",
		"bcrypt_cost":             4,
		"vessel_policy":           "owner",
		"cors_allowed_origins":    []string{"https://ops.example"},
		"rate_limit_window":       60,
		"trust_proxy":             true,
		"smtp_host":               "smtp.example",
		"smtp_secure":             true,
		"recipients":              map[string]string{"towage": "tugs@port.example"},
		"s3_bucket":               "notifications",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, ":9090", cfg.GRPCAddr)
		assert.Equal(t, "memory", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 12*time.Hour, cfg.TokenValidityDuration)
		assert.Equal(t, 4, cfg.BcryptCost)
		assert.Equal(t, VesselPolicyOwner, cfg.VesselPolicy)
		assert.Equal(t, []string{"https://ops.example"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, time.Minute, cfg.RateLimitWindow)
		assert.True(t, cfg.TrustProxy)
		assert.Equal(t, "smtp.example", cfg.SMTPHost)
		assert.True(t, cfg.SMTPSecure)
		assert.Equal(t, "notifications", cfg.S3Bucket)

		// recipients are merged, not replaced
		assert.Equal(t, "tugs@port.example", cfg.Recipients["towage"])
		assert.Equal(t, "pilotage@example.com", cfg.Recipients["pilotage"])

		// absent keys keep defaults
		assert.Equal(t, 100, cfg.RateLimitRequests)
		assert.Equal(t, "development", cfg.Environment)
	})

	t.Run("CONFIG env var is honoured", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("CONFIG", pathFlag)

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("CONFIG", "")

		cfg := &Config{
			HTTPAddr:              "defaults:1234",
			DatabaseDSN:           "db",
			SecretKey:             "key",
			TokenValidityDuration: 2 * time.Hour,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, "db", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.TokenValidityDuration)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
