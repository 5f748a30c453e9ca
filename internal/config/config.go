package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds runtime settings for the social graph server.
type Config struct {
	Host      string
	Port      string
	AdminAddr string

	TLSCertFile string
	TLSKeyFile  string

	StorageBackend string
	DataFile       string
	BadgerPath     string
	MongoURI       string
	MongoDatabase  string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	JWTSecret   string
	TokenExpiry time.Duration

	BcryptCost      int
	MaxMessageBytes int
	RateLimitRPS    float64
	RateLimitBurst  int

	StatsSchedule    string
	FlushSchedule    string
	BadgerGCSchedule string
	LogLevel         string
	LogFormat        string
}

// TLSEnabled reports whether both a certificate and a key were configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found, using environment variables")
	}

	return &Config{
		Host:      getEnv("HOST", "localhost"),
		Port:      getEnv("PORT", "5000"),
		AdminAddr: getEnv("ADMIN_ADDR", ":8080"),

		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),

		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		DataFile:       getEnv("DATA_FILE", "users_data.json"),
		BadgerPath:     getEnv("BADGER_PATH", "data/badger"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "socialgraph"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenExpiry: getEnvDuration("TOKEN_EXPIRY", 24*time.Hour),

		BcryptCost:      getEnvInt("BCRYPT_COST", 10),
		MaxMessageBytes: getEnvInt("MAX_MESSAGE_BYTES", 64*1024),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 20),

		StatsSchedule:    getEnv("STATS_SCHEDULE", "@hourly"),
		FlushSchedule:    getEnv("FLUSH_SCHEDULE", "@every 1m"),
		BadgerGCSchedule: getEnv("BADGER_GC_SCHEDULE", "@every 10m"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "value": v}).Warn("Invalid integer in environment, using default")
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "value": v}).Warn("Invalid number in environment, using default")
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "value": v}).Warn("Invalid duration in environment, using default")
		return fallback
	}
	return d
}
