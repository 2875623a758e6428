package config // package config loads application configuration from environment variables

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the HTTP server's runtime configuration.  Each field
// corresponds to an environment variable; only the port and the JWT
// secret are required.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	JWTSecret       string        // secret used to sign access tokens
	AccessTTLMin    int           // access token time-to-live in minutes
	RequestTimeout  time.Duration // upper bound for one store call inside a handler
	AMQPURL         string        // broker for booking events; empty disables publishing
	BookingLogDir   string        // directory the booking consumer appends to
	StatsDigestSpec string        // cron spec for the admin stats digest; empty disables it
	Store           StoreConfig
	Redis           RedisConfig
}

// StoreConfig selects and parameterizes the key-value backend behind
// the marketplace store.  It is shared by the server and the terminal
// client.
type StoreConfig struct {
	Backend      string  // memory | file | redis | mysql | mongo
	FilePath     string  // document path for the file backend
	RedisPrefix  string  // key prefix for the redis backend
	LatencyScale float64 // multiplier for simulated per-operation latency; 0 disables it

	DBUser string // mysql backend credentials
	DBPass string
	DBHost string
	DBPort string
	DBName string

	MongoURI        string
	MongoDB         string
	MongoCollection string
}

// Load reads the server configuration.  Required variables are enforced
// by must() and missing values cause the program to exit with a fatal
// log message.
func Load() Config {
	return Config{
		Env:             envStr("APP_ENV", "dev"),
		Port:            must("APP_PORT"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTTLMin:    envInt("ACCESS_TOKEN_TTL_MIN", 60),
		RequestTimeout:  envDur("REQUEST_TIMEOUT", 5*time.Second),
		AMQPURL:         amqpURL(),
		BookingLogDir:   envStr("BOOKING_LOG_DIR", "logs"),
		StatsDigestSpec: envStr("STATS_DIGEST_SPEC", "@hourly"),
		Store:           LoadStore("memory", 0),
		Redis:           LoadRedis(),
	}
}

// LoadStore reads the STORE_* variables.  defBackend and defScale let
// each binary choose its own defaults: the server runs without latency,
// the terminal client keeps the demo's simulated delays.
func LoadStore(defBackend string, defScale float64) StoreConfig {
	return StoreConfig{
		Backend:         envStr("STORE_BACKEND", defBackend),
		FilePath:        envStr("STORE_FILE", defaultStateFile()),
		RedisPrefix:     envStr("STORE_REDIS_PREFIX", "rm"),
		LatencyScale:    envFloat("STORE_LATENCY_SCALE", defScale),
		DBUser:          envStr("DB_USER", "root"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          envStr("DB_HOST", "127.0.0.1"),
		DBPort:          envStr("DB_PORT", "3306"),
		DBName:          envStr("DB_NAME", "rental_marketplace"),
		MongoURI:        envStr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         envStr("MONGO_DB", "rental_marketplace"),
		MongoCollection: envStr("MONGO_COLLECTION", "kv_store"),
	}
}

func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", "rentctl-state.json")
	}
	return filepath.Join(home, ".rentctl", "state.json")
}
