package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "38871" || cfg.Width != 800 || cfg.Tuning.MaxSpeed != 8 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults file not written: %v", err)
	}
	if GetConfigValue("fps").(int) != 30 {
		t.Fatalf("fps = %v", GetConfigValue("fps"))
	}
	if GetConfigValue("nope") != "" {
		t.Fatalf("unknown key should be empty")
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"port":"9000","tuning":{"maxspeed":12}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "9000" || cfg.Tuning.MaxSpeed != 12 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Height != 600 || cfg.Tuning.BaseSpeed != 3 || cfg.Tuning.Player.Gravity != 0.4 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte(`{"port":`), 0644)
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := saveConfig(path, Default()); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	changed := make(chan *AppConfig, 4)
	go Watch(path, done, func(c *AppConfig) { changed <- c })
	defer close(done)

	// give the watcher a moment to register
	time.Sleep(100 * time.Millisecond)
	cfg := Default()
	cfg.FPS = 45
	if err := saveConfig(path, cfg); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.FPS == 45 {
				return
			}
		case <-deadline:
			t.Fatalf("no reload observed")
		}
	}
}
