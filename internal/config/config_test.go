package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingPathReturnsEmpty(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if len(cfg.Bands) != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := `
receiver_callsign: KG5YJE
receiver_locator: EM13
wsprnet:
  enabled: true
bands:
  - name: 20m-wspr
    mode: WSPR
    dial_freq_hz: 14097100
    enabled: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReceiverCallsign != "KG5YJE" {
		t.Errorf("ReceiverCallsign = %q", cfg.ReceiverCallsign)
	}
	if !cfg.WSPRNet.Enabled {
		t.Error("expected wsprnet.enabled true")
	}
	if len(cfg.EnabledBands()) != 1 {
		t.Fatalf("expected 1 enabled band, got %d", len(cfg.EnabledBands()))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRequiresCallsignWhenReportingEnabled(t *testing.T) {
	cfg := &Config{WSPRNet: WSPRNetConfig{Enabled: true}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when reporter enabled without callsign/locator")
	}
}

func TestValidateRejectsZeroFrequencyBand(t *testing.T) {
	cfg := &Config{Bands: []Band{{Name: "bad", Mode: ModeFT8, Enabled: true}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero dial_freq_hz")
	}
}
