package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	DBSchema    string

	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// If true:
	// - /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Security policy:
	// If true, VECTOREDU_TOKEN_HMAC_KEY MUST be set (>= 32 bytes) and reset-token hashing must be HMAC-based.
	RequireTokenHMAC bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("VECTOREDU_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("VECTOREDU_LOG_LEVEL", "info"),
		LogFormat: EnvString("VECTOREDU_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("VECTOREDU_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("VECTOREDU_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("VECTOREDU_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("VECTOREDU_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("VECTOREDU_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("VECTOREDU_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("VECTOREDU_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("VECTOREDU_DB_MIN_CONNS", 0),
		DBSchema:    EnvString("VECTOREDU_DB_SCHEMA", "vectoredu"),

		CORSAllowedOrigins:   EnvStringList("VECTOREDU_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("VECTOREDU_CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAgeSeconds:    EnvInt("VECTOREDU_CORS_MAX_AGE_SECONDS", 600),

		ReadinessRequireDB: EnvBool("VECTOREDU_READINESS_REQUIRE_DB", false),

		RequireTokenHMAC: EnvBool("VECTOREDU_REQUIRE_TOKEN_HMAC", false),
	}
}
