package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	if cfg != want {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	content := `[client]
host = seedbox.local
port = 9999
username = anton

[ui]
view_mode = oneline
page_size = 50

[debug]
logs = true
`
	if err := os.WriteFile(filepath.Join(dir, "tewi.conf"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Client.Host != "seedbox.local" || cfg.Client.Port != 9999 || cfg.Client.Username != "anton" {
		t.Errorf("client section not applied: %+v", cfg.Client)
	}
	if cfg.UI.ViewMode != "oneline" || cfg.UI.PageSize != 50 {
		t.Errorf("ui section not applied: %+v", cfg.UI)
	}
	// refresh_interval absent: default holds
	if cfg.UI.RefreshInterval != 5 {
		t.Errorf("refresh_interval = %d, want default 5", cfg.UI.RefreshInterval)
	}
	if !cfg.Debug.Logs {
		t.Error("debug logs should be enabled")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"bad view mode", "[ui]\nview_mode = grid\n"},
		{"zero page size", "[ui]\npage_size = 0\n"},
		{"zero refresh", "[ui]\nrefresh_interval = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("XDG_CONFIG_HOME", dir)
			if err := os.WriteFile(filepath.Join(dir, "tewi.conf"), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			if _, err := Load(); err == nil {
				t.Error("Load should reject invalid config")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Client.Host = "10.0.0.2"
	cfg.UI.PageSize = 15

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}
