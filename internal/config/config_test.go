package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"appshell/internal/spa"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.Addr)
	}
	if cfg.MountPath != "/assets" {
		t.Errorf("expected /assets, got %q", cfg.MountPath)
	}
	if cfg.Variant != "separated" {
		t.Errorf("expected separated, got %q", cfg.Variant)
	}
	if cfg.ShutdownTimeout.Std() != 15*time.Second {
		t.Errorf("expected 15s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appshell.yaml")
	content := []byte(`
addr: ":9000"
mount_path: /ui
variant: unified
rate_limit_rps: 50
rate_limit_burst: 75
shutdown_timeout: 30s
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("expected :9000, got %q", cfg.Addr)
	}
	if cfg.MountPath != "/ui" {
		t.Errorf("expected /ui, got %q", cfg.MountPath)
	}
	if cfg.RateLimitRPS != 50 || cfg.RateLimitBurst != 75 {
		t.Errorf("unexpected rate limits: %v %v", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if cfg.ShutdownTimeout.Std() != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.ShutdownTimeout)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appshell.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\nvariant: separated\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("APPSHELL_ADDR", ":7000")
	t.Setenv("APPSHELL_VARIANT", "unified")
	t.Setenv("RATE_LIMIT_RPS", "12.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("expected env addr to win, got %q", cfg.Addr)
	}
	if cfg.Variant != "unified" {
		t.Errorf("expected env variant to win, got %q", cfg.Variant)
	}
	if cfg.RateLimitRPS != 12.5 {
		t.Errorf("expected 12.5 rps, got %v", cfg.RateLimitRPS)
	}
}

func TestPortEnvOverridesAddr(t *testing.T) {
	t.Setenv("PORT", "3000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Errorf("expected :3000, got %q", cfg.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsBadMount(t *testing.T) {
	cfg := &Config{Addr: ":8080", MountPath: "assets", Variant: "separated"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for mount without leading slash")
	}

	cfg.MountPath = "/"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for root mount")
	}
}

func TestValidateRejectsUnknownVariant(t *testing.T) {
	cfg := &Config{Addr: ":8080", MountPath: "/assets", Variant: "hybrid"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestSPAVariant(t *testing.T) {
	cfg := &Config{Variant: "separated"}
	if v, err := cfg.SPAVariant(); err != nil || v != spa.VariantSeparated {
		t.Fatalf("expected separated, got %v %v", v, err)
	}
	cfg.Variant = "Unified"
	if v, err := cfg.SPAVariant(); err != nil || v != spa.VariantUnified {
		t.Fatalf("expected unified, got %v %v", v, err)
	}
}
