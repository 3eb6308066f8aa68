package config

import (
	"strconv"
	"strings"
	"time"
)

// recipientEnv maps environment variables to notification kinds.
var recipientEnv = map[string]string{
	"PILOTAGE_EMAIL":   "pilotage",
	"TUG_EMAIL":        "towage",
	"LINESMEN_EMAIL":   "linesmen",
	"TERMINAL_EMAIL":   "terminal",
	"WATER_EMAIL":      "freshWater",
	"PROVISIONS_EMAIL": "provisions",
	"WASTE_EMAIL":      "wasteDisposal",
}

// parseEnv overlays environment variables onto config. lookup is normally
// os.LookupEnv; tests pass a map-backed function. Malformed numeric or
// duration values panic, matching how a broken JSON file is treated.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	get := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), true
			}
		}
		return "", false
	}

	if v, ok := get("HTTP_ADDR"); ok {
		config.HTTPAddr = v
	} else if v, ok := get("PORT"); ok {
		config.HTTPAddr = ":" + v
	}
	if v, ok := lookup("GRPC_ADDR"); ok {
		// explicit empty value disables gRPC
		config.GRPCAddr = strings.TrimSpace(v)
	}
	if v, ok := get("DATABASE_DSN", "DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := get("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := get("TOKEN_TTL"); ok {
		config.TokenValidityDuration = mustDuration("TOKEN_TTL", v)
	}
	if v, ok := get("APP_ENV"); ok {
		config.Environment = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := get("BCRYPT_COST"); ok {
		config.BcryptCost = mustInt("BCRYPT_COST", v)
	}

	if v, ok := get("ADMIN_EMAIL"); ok {
		config.AdminEmail = v
	}
	if v, ok := get("ADMIN_PASSWORD"); ok {
		config.AdminPassword = v
	}
	if v, ok := get("VESSEL_POLICY"); ok {
		config.VesselPolicy = v
	}

	if v, ok := get("CORS_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	if v, ok := get("RATE_LIMIT_REQUESTS"); ok {
		config.RateLimitRequests = mustInt("RATE_LIMIT_REQUESTS", v)
	}
	if v, ok := get("RATE_LIMIT_WINDOW"); ok {
		config.RateLimitWindow = mustDuration("RATE_LIMIT_WINDOW", v)
	}
	if v, ok := get("TRUST_PROXY"); ok {
		config.TrustProxy = mustBool("TRUST_PROXY", v)
	}
	if v, ok := get("HEALTH_CHECK_INTERVAL"); ok {
		config.HealthCheckInterval = mustDuration("HEALTH_CHECK_INTERVAL", v)
	}

	if v, ok := get("SMTP_HOST"); ok {
		config.SMTPHost = v
	}
	if v, ok := get("SMTP_PORT"); ok {
		config.SMTPPort = mustInt("SMTP_PORT", v)
	}
	if v, ok := get("SMTP_USER"); ok {
		config.SMTPUser = v
	}
	if v, ok := get("SMTP_PASS", "SMTP_PASSWORD"); ok {
		config.SMTPPassword = v
	}
	if v, ok := get("SMTP_SECURE"); ok {
		config.SMTPSecure = mustBool("SMTP_SECURE", v)
	}
	if v, ok := get("EMAIL_FROM"); ok {
		config.EmailFrom = v
	}
	if v, ok := get("AGENCY_EMAIL"); ok {
		config.AgencyEmail = v
	}
	for env, kind := range recipientEnv {
		if v, ok := get(env); ok {
			if config.Recipients == nil {
				config.Recipients = map[string]string{}
			}
			config.Recipients[kind] = v
		}
	}

	if v, ok := get("S3_ROOT_USER"); ok {
		config.S3RootUser = v
	}
	if v, ok := get("S3_ROOT_PASSWORD"); ok {
		config.S3RootPassword = v
	}
	if v, ok := get("S3_BUCKET"); ok {
		config.S3Bucket = v
	}
	if v, ok := get("S3_REGION"); ok {
		config.S3Region = v
	}
	if v, ok := get("S3_BASE_ENDPOINT"); ok {
		config.S3BaseEndpoint = v
	}
}

// mustDuration accepts Go durations ("24h") and bare seconds ("86400").
func mustDuration(key, v string) time.Duration {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return d
}

func mustInt(key, v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return n
}

func mustBool(key, v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return b
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
