package config // package config loads runtime configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Feed names are a fixed contract between the feed service and the
// dashboard; the HTTP paths are derived from them directly.
var FeedNames = []string{"CompanyDetails", "Employee_Data1", "timesheet", "Modules_Tasks"}

// AuthConfig holds everything the auth server needs. The two signing
// secrets are required and distinct: the session token and the CSRF
// token must never be verifiable with each other's key.
type AuthConfig struct {
	Env        string        // application environment (e.g. "dev", "prod")
	Port       string        // HTTP port to listen on
	DBUser     string        // database username
	DBPass     string        // database password (optional)
	DBHost     string        // database host address
	DBPort     string        // database port number
	DBName     string        // database name
	DBMaxConns int           // connection pool ceiling
	JWTSecret  string        // secret signing session tokens
	CSRFSecret string        // secret signing anti-forgery tokens
	TokenTTL   time.Duration // validity of both tokens (1h)
	BcryptCost int           // bcrypt cost for password hashing
	CookieMode bool          // also deliver credentials as cookies
	Origins    []string      // allowed CORS origins for the browser client
}

// LoadAuth reads the auth server configuration. Missing secrets are a
// fatal configuration error by design: running without them would issue
// unverifiable credentials.
func LoadAuth() AuthConfig {
	return AuthConfig{
		Env:        envStr("APP_ENV", "dev"),
		Port:       envStr("APP_PORT", "5000"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"),
		DBHost:     must("DB_HOST"),
		DBPort:     envStr("DB_PORT", "3306"),
		DBName:     must("DB_NAME"),
		DBMaxConns: envInt("DB_MAX_CONNS", 25),
		JWTSecret:  must("JWT_SECRET"),
		CSRFSecret: must("CSRF_SECRET"),
		TokenTTL:   envDur("TOKEN_TTL", time.Hour),
		BcryptCost: envInt("BCRYPT_COST", 10),
		CookieMode: envBool("AUTH_COOKIE_MODE", false),
		Origins:    splitCSV(envStr("ALLOWED_ORIGINS", "*")),
	}
}

// FeedConfig holds the feed server configuration. Each feed name maps to
// <Dir>/<name>.csv on disk.
type FeedConfig struct {
	Port     string        // HTTP port to listen on
	Dir      string        // directory containing the four CSV files
	Debounce time.Duration // quiet period before a changed file is re-parsed
	AMQPURL  string        // broker URL for feed.reloaded events (empty disables)
	Origins  []string      // allowed CORS origins
}

func LoadFeed() FeedConfig {
	return FeedConfig{
		Port:     envStr("FEED_PORT", "5001"),
		Dir:      envStr("FEED_DIR", "."),
		Debounce: envDur("FEED_DEBOUNCE", 200*time.Millisecond),
		AMQPURL:  amqpURL(),
		Origins:  splitCSV(envStr("ALLOWED_ORIGINS", "*")),
	}
}

// DashboardConfig holds the dashboard aggregator configuration.
type DashboardConfig struct {
	Port         string        // HTTP port to listen on
	FeedURL      string        // base URL of the feed service
	PollInterval time.Duration // how often to check feed generations
	AMQPURL      string        // broker URL for reload notifications (empty disables)
	Origins      []string      // allowed CORS origins
}

func LoadDashboard() DashboardConfig {
	return DashboardConfig{
		Port:         envStr("DASHBOARD_PORT", "5002"),
		FeedURL:      envStr("FEED_URL", "http://localhost:5001"),
		PollInterval: envDur("POLL_INTERVAL", 2*time.Second),
		AMQPURL:      amqpURL(),
		Origins:      splitCSV(envStr("ALLOWED_ORIGINS", "*")),
	}
}

// amqpURL resolves the broker URL from either of the common variable
// names. An empty result disables messaging entirely.
func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves a required environment variable. If the variable is
// unset or empty the process exits with a fatal log message.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
