package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env to be dev, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "8085" {
		t.Fatalf("expected default port, got %q", cfg.App.Port)
	}
	if cfg.Snapshot.Driver != SnapshotDriverSQLite {
		t.Fatalf("expected sqlite snapshot driver, got %q", cfg.Snapshot.Driver)
	}
	if cfg.SmartOrder.Timeout != 30*time.Second {
		t.Fatalf("expected 30s smart order timeout, got %v", cfg.SmartOrder.Timeout)
	}
	if cfg.SmartOrder.Enabled() {
		t.Fatalf("smart order should be disabled without api key")
	}
	if cfg.Fiscal.NormalizedModule() != FiscalModuleNone {
		t.Fatalf("unexpected fiscal module %q", cfg.Fiscal.NormalizedModule())
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RedisDriverRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvSnapshotDriver, SnapshotDriverRedis)

	if _, err := Load(); err == nil {
		t.Fatal("expected redis driver without address to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	if _, err := Load(); err != nil {
		t.Fatalf("expected redis driver with url to load, got %v", err)
	}
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	cases := map[string]string{
		EnvPaperWidth:          "110mm",
		EnvFiscalModule:        "ECF",
		EnvFiscalFailureRate:   "1.5",
		EnvSnapshotDriver:      "postgres",
		EnvSettlementTolerance: "-0.01",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			setMinimalEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected %s=%s to be rejected", key, value)
			}
		})
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "dev")
	for _, key := range []string{EnvPort, EnvSnapshotDriver, EnvRedisURL, EnvRedisAddr, EnvPaperWidth, EnvFiscalModule, EnvFiscalFailureRate, EnvOpenAIAPIKey, EnvSettlementTolerance} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
