package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/bananabrain/internal/gate/puzzle"
)

type Config struct {
	TokenSecret    string        // Required outside dev/test: HS512 key for answer tokens (>= 32 bytes)
	AnswerTokenTTL time.Duration // Optional: answer token lifetime (default: 5m)
	TokenLeeway    time.Duration // Optional: clock skew tolerated on exp (default: 0)

	PuzzleURL       string        // Optional: puzzle API endpoint (default: banana API)
	UpstreamTimeout time.Duration // Optional: bound on every puzzle / provider / SMTP call (default: 5s)

	DatabaseFile string // Optional: path to SQLite database file (default: ./bananabrain.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	SessionTTL        time.Duration // Optional: session lifetime (default: 12h)
	RecoveryTTL       time.Duration // Optional: recovery link lifetime (default: 1h)
	ChallengeTTL      time.Duration // Optional: MFA challenge lifetime (default: 5m)
	TOTPIssuer        string        // Optional: issuer shown in authenticator apps (default: BananaBrain)
	PublicBaseURL     string        // Optional: game client origin used in recovery links (default: http://localhost:8080)
	PasswordResetPath string        // Optional: client route of the reset screen (default: /update-password)

	EmailCodesEnabled bool          // Optional: expose the legacy email-code endpoints (default: false)
	EmailCodeTTL      time.Duration // Optional: email code lifetime (default: 5m)

	SMTPHost     string // Optional: when empty, mail is logged and dropped
	SMTPPort     int    // Optional: (default: 587)
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string // Optional: (default: no-reply@bananabrain.local)
	SMTPTLS      bool   // Optional: require STARTTLS (default: true)

	RedisURL string // Optional: makes answer tokens single-use when set

	Env                  string        // Environment (dev, test, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		TokenSecret:    os.Getenv("GATE_TOKEN_SECRET"),
		AnswerTokenTTL: getEnvDurationOrDefault("ANSWER_TOKEN_TTL", 5*time.Minute),
		TokenLeeway:    getEnvDurationOrDefault("TOKEN_LEEWAY", 0),

		PuzzleURL:       getEnvOrDefault("PUZZLE_API_URL", puzzle.DefaultURL),
		UpstreamTimeout: getEnvDurationOrDefault("UPSTREAM_TIMEOUT", 5*time.Second),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "bananabrain.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),

		SessionTTL:        getEnvDurationOrDefault("SESSION_TTL", 12*time.Hour),
		RecoveryTTL:       getEnvDurationOrDefault("RECOVERY_TTL", time.Hour),
		ChallengeTTL:      getEnvDurationOrDefault("MFA_CHALLENGE_TTL", 5*time.Minute),
		TOTPIssuer:        getEnvOrDefault("TOTP_ISSUER", "BananaBrain"),
		PublicBaseURL:     strings.TrimSuffix(getEnvOrDefault("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		PasswordResetPath: getEnvOrDefault("PASSWORD_RESET_PATH", "/update-password"),

		EmailCodesEnabled: getEnvBoolOrDefault("EMAIL_CODES_ENABLED", false),
		EmailCodeTTL:      getEnvDurationOrDefault("EMAIL_CODE_TTL", 5*time.Minute),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@bananabrain.local"),
		SMTPTLS:      getEnvBoolOrDefault("SMTP_TLS", true),

		RedisURL: os.Getenv("REDIS_URL"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// ResetURL is where recovery links land.
func (c Config) ResetURL() string {
	p := c.PasswordResetPath
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return c.PublicBaseURL + p
}

// insecureDefaultsAllowed reports whether missing secrets may be generated.
func (c Config) insecureDefaultsAllowed() bool {
	return c.Env == "dev" || c.Env == "test"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
