package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/solvelog/internal/utils"
	"github.com/MrSnakeDoc/solvelog/internal/version"
)

// Backend kinds accepted by SOLVELOG_BACKEND.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline, covers server-side page fetches

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	Backend    string // memory | redis | bolt | sqlite
	StoreKey   string // key of the problem document in the backend
	BoltPath   string // bbolt database file
	SQLitePath string // sqlite database file (":memory:" allowed)

	// Redis (only read when Backend=redis)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Calendar
	Location    *time.Location // day boundaries for streaks, heatmap and feed
	HeatmapDays int            // default heatmap window

	// Background jobs
	ReloadInterval  time.Duration // interval to reload the store from its backend
	ImportFile      string        // optional YAML/JSON file imported at start and on change
	ImportDebounce  time.Duration // quiet period before re-importing a changed file
	BackupDir       string        // optional, empty = backups disabled
	BackupInterval  time.Duration // interval between backups
	BackupRetention time.Duration // backups older than this are deleted

	// Page fetcher
	FetchEnabled     bool          // allow server-side page fetching on track
	FetchTimeout     time.Duration // per fetch
	FetchUserAgent   string        // User-Agent header sent to judges
	FetchMaxFailures int           // consecutive failures before the breaker opens
	FetchOpenTimeout time.Duration // how long the breaker stays open

	// HTTP surface
	CORSOrigins     []string // optional, enables CORS for these origins
	RateLimitBurst  int      // per-IP burst on mutating routes, 0 = disabled
	RateLimitPerMin int      // per-IP refill rate on mutating routes

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs (e.g. "1.2.3.4, 5.6.7.8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	loadDotEnv(getenv("SOLVELOG_ENV_FILE", ".env"))

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SOLVELOG_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustPositiveDuration("SOLVELOG_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustPositiveDuration("SOLVELOG_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("SOLVELOG_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SOLVELOG_PRETTY_LOG", true),

		// Storage
		Backend:    strings.ToLower(getenv("SOLVELOG_BACKEND", BackendBolt)),
		StoreKey:   getenv("SOLVELOG_STORE_KEY", "problems"),
		BoltPath:   getenv("SOLVELOG_BOLT_PATH", "/data/solvelog.db"),
		SQLitePath: getenv("SOLVELOG_SQLITE_PATH", "/data/solvelog.sqlite"),

		// Calendar
		Location:    mustLocation("SOLVELOG_TIMEZONE", "Local"),
		HeatmapDays: getenvInt("SOLVELOG_HEATMAP_DAYS", 365),

		// Background jobs
		ReloadInterval:  mustPositiveDuration("SOLVELOG_RELOAD_INTERVAL", time.Hour),
		ImportFile:      getenv("SOLVELOG_IMPORT_FILE", ""), // Optional, empty = no watched import
		ImportDebounce:  mustDuration("SOLVELOG_IMPORT_DEBOUNCE", 200*time.Millisecond),
		BackupDir:       getenv("SOLVELOG_BACKUP_DIR", ""), // Optional, empty = backups disabled
		BackupInterval:  mustPositiveDuration("SOLVELOG_BACKUP_INTERVAL", 24*time.Hour),
		BackupRetention: mustPositiveDuration("SOLVELOG_BACKUP_RETENTION", 30*24*time.Hour),

		// Page fetcher
		FetchEnabled:     mustBool("SOLVELOG_FETCH_ENABLED", true),
		FetchTimeout:     mustPositiveDuration("SOLVELOG_FETCH_TIMEOUT", 10*time.Second),
		FetchUserAgent:   getenv("SOLVELOG_FETCH_USER_AGENT", version.UserAgent()),
		FetchMaxFailures: getenvInt("SOLVELOG_FETCH_MAX_FAILURES", 5),
		FetchOpenTimeout: mustDuration("SOLVELOG_FETCH_OPEN_TIMEOUT", time.Minute),

		// HTTP surface
		CORSOrigins:     splitAndTrim(getenv("SOLVELOG_CORS_ORIGINS", "")),
		RateLimitBurst:  getenvInt("SOLVELOG_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("SOLVELOG_RATE_LIMIT_PER_MIN", 60),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("SOLVELOG_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("SOLVELOG_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("SOLVELOG_TRUST_PROXY", false),
	}

	switch cfg.Backend {
	case BackendMemory, BackendRedis, BackendBolt, BackendSQLite:
	default:
		panic(fmt.Sprintf("❌ FATAL: SOLVELOG_BACKEND must be one of memory, redis, bolt, sqlite (got %q)", cfg.Backend))
	}

	if cfg.Backend == BackendRedis {
		loadRedis(cfg)
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("SOLVELOG_REDIS_ADDR")
	cfg.RedisUser = getenv("SOLVELOG_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("SOLVELOG_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("SOLVELOG_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("SOLVELOG_REDIS_DB")
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	// Validate Redis password configuration
	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: SOLVELOG_REDIS_PASSWORD is required when SOLVELOG_REDIS_PASSWORD_REQUIRED=true")
	}
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is fine.
func loadDotEnv(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] failed to load %s: %v\n", path, err)
	}
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustPositiveDuration is mustDuration for tickers and deadlines, which
// cannot be zero or negative.
func mustPositiveDuration(key string, def time.Duration) time.Duration {
	d := mustDuration(key, def)
	if d <= 0 {
		panic(fmt.Sprintf("❌ FATAL: %s must be a positive duration (got %v)", key, d))
	}
	return d
}

func mustLocation(key, def string) *time.Location {
	name := getenv(key, def)
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid time zone for %s: %s", key, name))
	}
	return loc
}

// parseAllowedIPs keeps the raw entries but rejects anything that is
// neither an IP nor a CIDR.
func parseAllowedIPs(allowed string) []string {
	entries := splitAndTrim(allowed)
	for _, e := range entries {
		if _, ok := utils.ParsePrefix(e); !ok {
			panic(fmt.Sprintf("❌ FATAL: SOLVELOG_ALLOWED_CIDRS has an invalid entry %q", e))
		}
	}
	return entries
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
