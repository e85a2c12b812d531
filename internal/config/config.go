package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. The signing configuration is read once at startup and
// treated as immutable afterwards; components receive it by value.
type Config struct {
	Env          string        // application environment (e.g. "dev", "prod")
	Port         string        // HTTP port to listen on
	DBUser       string        // database username
	DBPass       string        // database password (optional)
	DBHost       string        // database host address
	DBPort       string        // database port number
	DBName       string        // database name
	JWTSecret    string        // secret used to sign JWTs
	JWTAlgorithm string        // signing algorithm identifier (default HS256)
	AccessTTL    time.Duration // access token time-to-live
	RefreshTTL   time.Duration // refresh token time-to-live
	BcryptCost   int           // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message. Token TTLs are given in
// seconds (ACCESS_TOKEN_TTL_SEC, REFRESH_TOKEN_TTL_SEC).
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		JWTAlgorithm: envStr("JWT_ALGORITHM", "HS256"),
		AccessTTL:    time.Duration(mustInt("ACCESS_TOKEN_TTL_SEC")) * time.Second,
		RefreshTTL:   time.Duration(mustInt("REFRESH_TOKEN_TTL_SEC")) * time.Second,
		BcryptCost:   mustInt("BCRYPT_COST"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
