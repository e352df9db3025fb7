// Package config loads runtime configuration from the environment.
//
// A .env file in the working directory is loaded first (via godotenv) so
// local development doesn't require exporting variables; a missing file is
// not an error. Every value has a default except JWT_SECRET: when unset, a
// random key is generated per process start, which invalidates all issued
// tokens on restart.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"

	"github.com/joho/godotenv"
)

// DefaultCatalogURL is the Google Apps Script endpoint serving the product
// catalog spreadsheet.
const DefaultCatalogURL = "https://script.google.com/macros/s/AKfycbwJeBmEY53VYRy_axC-aVJ-rhXxHmTnWTbObJugG4G2soVW_Bo_SyUqXytu6oKtR8c/exec"

type Config struct {
	Port     string
	MongoURL string
	DBName   string

	// JWTSecret signs session tokens. GeneratedSecret reports whether it
	// came from the environment or was generated at startup.
	JWTSecret       string
	GeneratedSecret bool

	CatalogURL string

	// PublicBaseURL, when set, overrides the request-derived base URL used
	// for rewritten image links (needed behind a reverse proxy that doesn't
	// forward the public host).
	PublicBaseURL string
}

// Load reads the configuration. Never fails: every knob has a usable default.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		MongoURL:      getenv("MONGO_URL", "mongodb://localhost:27017"),
		DBName:        getenv("DB_NAME", "ultimate_kits"),
		CatalogURL:    getenv("CATALOG_URL", DefaultCatalogURL),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = randomSecret()
		cfg.GeneratedSecret = true
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// randomSecret returns 32 random bytes hex-encoded. crypto/rand.Read is
// documented to always succeed.
func randomSecret() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
