package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoad_Defaults verifies that a missing config file yields the device defaults
func TestLoad_Defaults(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("STICKERPANEL_CONFIG_DIR", configDir)
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Catalog.PresetDir != DefaultPresetDir {
		t.Errorf("Expected preset dir %q, got %q", DefaultPresetDir, cfg.Catalog.PresetDir)
	}
	if cfg.Catalog.DownloadedDir != DefaultDownloadedDir {
		t.Errorf("Expected downloaded dir %q, got %q", DefaultDownloadedDir, cfg.Catalog.DownloadedDir)
	}
	if cfg.Catalog.RecentLimit != 40 {
		t.Errorf("Expected recent limit 40, got %d", cfg.Catalog.RecentLimit)
	}
	if cfg.Catalog.FrameOrder != "path" {
		t.Errorf("Expected frame order path, got %q", cfg.Catalog.FrameOrder)
	}
	if !cfg.Catalog.DeleteFiles {
		t.Error("Expected delete_files to default to true")
	}
	if len(cfg.Catalog.SeedGroups) != len(DefaultSeedGroups) {
		t.Errorf("Expected %d seed groups, got %d", len(DefaultSeedGroups), len(cfg.Catalog.SeedGroups))
	}
	if cfg.Storage.DBPath() != filepath.Join(configDir, DefaultDBFile) {
		t.Errorf("Unexpected db path %q", cfg.Storage.DBPath())
	}
}

// TestLoad_FileAndEnv verifies that the YAML file is read and env vars win over it
func TestLoad_FileAndEnv(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("STICKERPANEL_CONFIG_DIR", configDir)
	chdir(t, t.TempDir())

	yaml := "catalog:\n  preset_dir: /srv/stickers\n  recent_limit: 12\nlogging:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("STICKERPANEL_CATALOG_RECENT_LIMIT", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Catalog.PresetDir != "/srv/stickers" {
		t.Errorf("Expected preset dir from file, got %q", cfg.Catalog.PresetDir)
	}
	if cfg.Catalog.RecentLimit != 5 {
		t.Errorf("Expected env override 5, got %d", cfg.Catalog.RecentLimit)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Logging.Level)
	}
}

// TestLoad_InvalidFrameOrder verifies that unknown frame orders are rejected
func TestLoad_InvalidFrameOrder(t *testing.T) {
	t.Setenv("STICKERPANEL_CONFIG_DIR", t.TempDir())
	chdir(t, t.TempDir())
	t.Setenv("STICKERPANEL_CATALOG_FRAME_ORDER", "random")

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid frame order")
	}
}

func TestSources(t *testing.T) {
	c := CatalogConfig{PresetDir: "/a", DownloadedDir: ""}
	roots := c.Sources()
	if len(roots) != 1 || roots[0] != "/a" {
		t.Errorf("Expected [/a], got %v", roots)
	}

	c.DownloadedDir = "/b"
	roots = c.Sources()
	if len(roots) != 2 || roots[1] != "/b" {
		t.Errorf("Expected [/a /b], got %v", roots)
	}
}

func TestDBPath_Absolute(t *testing.T) {
	s := StorageConfig{DataDir: "/data", DBFile: "/var/lib/panel.db"}
	if s.DBPath() != "/var/lib/panel.db" {
		t.Errorf("Expected absolute db file to be used as is, got %q", s.DBPath())
	}
}

// TestSavePermissions verifies that Save writes a 0600 file that Load reads back
func TestSavePermissions(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "stickerpanel")
	t.Setenv("STICKERPANEL_CONFIG_DIR", configDir)
	chdir(t, t.TempDir())

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	cfg.Catalog.PresetDir = "/srv/presets"

	configPath, err := Save(cfg)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected permissions 0600, got %o", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Catalog.PresetDir != "/srv/presets" {
		t.Errorf("Expected saved preset dir, got %q", loaded.Catalog.PresetDir)
	}
}

// chdir changes the working directory for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
