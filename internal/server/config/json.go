package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/shipagency/internal/flagx"
	"github.com/dmitrijs2005/shipagency/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and plain seconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. Only fields present (non-zero) in the file override the target Config.
type JsonConfig struct {
	HTTPAddr              string         `json:"http_addr"`
	GRPCAddr              string         `json:"grpc_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	Environment           string         `json:"environment"`
	LogLevel              string         `json:"log_level"`
	BcryptCost            int            `json:"bcrypt_cost"`

	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
	VesselPolicy  string `json:"vessel_policy"`

	CORSAllowedOrigins  []string       `json:"cors_allowed_origins"`
	RateLimitRequests   int            `json:"rate_limit_requests"`
	RateLimitWindow     timex.Duration `json:"rate_limit_window"`
	TrustProxy          *bool          `json:"trust_proxy"`
	HealthCheckInterval timex.Duration `json:"health_check_interval"`

	SMTPHost     string            `json:"smtp_host"`
	SMTPPort     int               `json:"smtp_port"`
	SMTPUser     string            `json:"smtp_user"`
	SMTPPassword string            `json:"smtp_password"`
	SMTPSecure   *bool             `json:"smtp_secure"`
	EmailFrom    string            `json:"email_from"`
	AgencyEmail  string            `json:"agency_email"`
	Recipients   map[string]string `json:"recipients"`

	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c/-config flags or the CONFIG environment
// variable (see flagx.JsonConfigFlags). If neither is set, nothing is loaded.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	setString(&config.Environment, c.Environment)
	setString(&config.LogLevel, c.LogLevel)
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}

	setString(&config.AdminEmail, c.AdminEmail)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.VesselPolicy, c.VesselPolicy)

	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.RateLimitRequests > 0 {
		config.RateLimitRequests = c.RateLimitRequests
	}
	if c.RateLimitWindow.Duration > 0 {
		config.RateLimitWindow = c.RateLimitWindow.Duration
	}
	if c.TrustProxy != nil {
		config.TrustProxy = *c.TrustProxy
	}
	if c.HealthCheckInterval.Duration > 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}

	setString(&config.SMTPHost, c.SMTPHost)
	if c.SMTPPort > 0 {
		config.SMTPPort = c.SMTPPort
	}
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	if c.SMTPSecure != nil {
		config.SMTPSecure = *c.SMTPSecure
	}
	setString(&config.EmailFrom, c.EmailFrom)
	setString(&config.AgencyEmail, c.AgencyEmail)
	if len(c.Recipients) > 0 {
		if config.Recipients == nil {
			config.Recipients = map[string]string{}
		}
		for k, v := range c.Recipients {
			config.Recipients[k] = v
		}
	}

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
