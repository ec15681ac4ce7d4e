// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds the runtime configuration. Each field corresponds to one
// environment variable; required ones are enforced by must() and abort
// startup when missing.
type Config struct {
	Env                 string // application environment ("dev", "prod")
	Port                string // HTTP port to listen on
	MongoURI            string // MongoDB connection string
	MongoDB             string // database name
	DBSeed              bool   // load the dev seed data when the collection is empty
	JWTSecret           string // secret used to sign access tokens
	AccessTTLMin        int    // access token time-to-live in minutes
	UserPasswordEncoded string // bcrypt hash shared by the built-in dev users
	MaxFileBytes        int    // upper bound for binary attachment uploads
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Env:                 getenv("APP_ENV", "dev"),
		Port:                must("APP_PORT"),
		MongoURI:            must("MONGODB_URI"),
		MongoDB:             must("MONGODB_NAME"),
		DBSeed:              getenv("DB_SEED", "false") == "true",
		JWTSecret:           must("JWT_SECRET"),
		AccessTTLMin:        mustInt("ACCESS_TOKEN_TTL_MIN"),
		UserPasswordEncoded: must("USER_PASSWORD_ENCODED"),
		MaxFileBytes:        atoi(getenv("MAX_FILE_BYTES", "10485760")),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}
