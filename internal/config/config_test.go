package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ALLOWED_ORIGIN", "DATA_FILE", "DATABASE_URL", "REDIS_ADDR",
		"SESSION_TTL_MINUTES", "SYNC_TIMEOUT_SECONDS", "OPERATOR_USER",
		"OPERATOR_PASSWORD", "SYNC_ENDPOINT", "CLAMP_STOCK",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.DataFile != "gameshop.json" {
		t.Fatalf("DataFile = %q", cfg.DataFile)
	}
	if cfg.SessionTTLMinutes != 480 {
		t.Fatalf("SessionTTLMinutes = %d", cfg.SessionTTLMinutes)
	}
	if cfg.SyncTimeoutSeconds != 5 {
		t.Fatalf("SyncTimeoutSeconds = %d", cfg.SyncTimeoutSeconds)
	}
	if cfg.ClampStock {
		t.Fatal("ClampStock must default to false")
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("Address = %q", cfg.Address())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_FILE", "/tmp/shop.json")
	t.Setenv("SESSION_TTL_MINUTES", "60")
	t.Setenv("SYNC_ENDPOINT", "http://shop:8080/sync")
	t.Setenv("CLAMP_STOCK", "true")

	cfg := Load()
	if cfg.Port != "9090" || cfg.DataFile != "/tmp/shop.json" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.SessionTTLMinutes != 60 {
		t.Fatalf("SessionTTLMinutes = %d", cfg.SessionTTLMinutes)
	}
	if cfg.SyncEndpoint != "http://shop:8080/sync" {
		t.Fatalf("SyncEndpoint = %q", cfg.SyncEndpoint)
	}
	if !cfg.ClampStock {
		t.Fatal("ClampStock not parsed")
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("SESSION_TTL_MINUTES", "banana")
	t.Setenv("SYNC_TIMEOUT_SECONDS", "-3")

	cfg := Load()
	if cfg.SessionTTLMinutes != 480 {
		t.Fatalf("SessionTTLMinutes = %d, want fallback", cfg.SessionTTLMinutes)
	}
	if cfg.SyncTimeoutSeconds != 5 {
		t.Fatalf("SyncTimeoutSeconds = %d, want fallback", cfg.SyncTimeoutSeconds)
	}
}
