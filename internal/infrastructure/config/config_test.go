package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Server.Port)
	}
	if cfg.Desktop.MenuBarHeight != 28 {
		t.Errorf("expected menu bar height 28, got %d", cfg.Desktop.MenuBarHeight)
	}
	if cfg.Desktop.DefaultWindowWidth != 600 || cfg.Desktop.DefaultWindowHeight != 450 {
		t.Errorf("unexpected default window size %dx%d",
			cfg.Desktop.DefaultWindowWidth, cfg.Desktop.DefaultWindowHeight)
	}
	if cfg.Poll.Notifications != 10*time.Second {
		t.Errorf("expected 10s notification poll, got %v", cfg.Poll.Notifications)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("PORT", "9999")
	os.Setenv("DESKTOP_SIDEBAR", "400")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("DESKTOP_SIDEBAR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9999" {
		t.Errorf("expected port 9999, got %s", cfg.Server.Port)
	}
	if cfg.Desktop.SidebarWidth != 400 {
		t.Errorf("expected sidebar width 400, got %d", cfg.Desktop.SidebarWidth)
	}
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desktop.toml")
	data := "[desktop]\ncascade_step = 75\nsidebar_width = 320\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Desktop.CascadeStep != 75 {
		t.Errorf("expected cascade step 75, got %d", cfg.Desktop.CascadeStep)
	}
	if cfg.Desktop.SidebarWidth != 320 {
		t.Errorf("expected sidebar width 320, got %d", cfg.Desktop.SidebarWidth)
	}
	// Untouched keys keep their defaults.
	if cfg.Desktop.CascadeBase != 100 {
		t.Errorf("expected cascade base 100, got %d", cfg.Desktop.CascadeBase)
	}
}

func TestEffectiveSidebarWidth(t *testing.T) {
	d := Default().Desktop
	if got := d.EffectiveSidebarWidth(false); got != 380 {
		t.Errorf("expected 380, got %d", got)
	}
	if got := d.EffectiveSidebarWidth(true); got != 60 {
		t.Errorf("expected 60, got %d", got)
	}
}
