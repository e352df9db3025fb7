package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_URL", "DB_NAME", "JWT_SECRET", "CATALOG_URL", "PUBLIC_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.MongoURL != "mongodb://localhost:27017" {
		t.Errorf("MongoURL = %q", cfg.MongoURL)
	}
	if cfg.DBName != "ultimate_kits" {
		t.Errorf("DBName = %q", cfg.DBName)
	}
	if cfg.CatalogURL != DefaultCatalogURL {
		t.Errorf("CatalogURL = %q", cfg.CatalogURL)
	}
	if cfg.PublicBaseURL != "" {
		t.Errorf("PublicBaseURL = %q, want empty", cfg.PublicBaseURL)
	}
}

func TestLoad_GeneratesSecretWhenUnset(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	first := Load()
	second := Load()

	if !first.GeneratedSecret {
		t.Error("GeneratedSecret = false with no JWT_SECRET in the environment")
	}
	if len(first.JWTSecret) < 32 {
		t.Errorf("generated secret too short: %d chars", len(first.JWTSecret))
	}
	if first.JWTSecret == second.JWTSecret {
		t.Error("two generated secrets are identical")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MONGO_URL", "mongodb://db.internal:27017")
	t.Setenv("DB_NAME", "kits_test")
	t.Setenv("JWT_SECRET", "configured-secret-value-here")
	t.Setenv("CATALOG_URL", "https://example.com/catalog")
	t.Setenv("PUBLIC_BASE_URL", "https://kits.example.com")

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.MongoURL != "mongodb://db.internal:27017" {
		t.Errorf("MongoURL = %q", cfg.MongoURL)
	}
	if cfg.DBName != "kits_test" {
		t.Errorf("DBName = %q", cfg.DBName)
	}
	if cfg.JWTSecret != "configured-secret-value-here" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.GeneratedSecret {
		t.Error("GeneratedSecret = true for a configured secret")
	}
	if cfg.CatalogURL != "https://example.com/catalog" {
		t.Errorf("CatalogURL = %q", cfg.CatalogURL)
	}
	if cfg.PublicBaseURL != "https://kits.example.com" {
		t.Errorf("PublicBaseURL = %q", cfg.PublicBaseURL)
	}
}
