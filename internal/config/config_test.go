package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/shaderset/internal/engine/shader"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Shaders.Version != "410 core" {
		t.Errorf("expected version '410 core', got %q", cfg.Shaders.Version)
	}
	if cfg.Shaders.PollInterval != 500*time.Millisecond {
		t.Errorf("expected poll interval 500ms, got %v", cfg.Shaders.PollInterval)
	}
	if len(cfg.Shaders.Programs) != 0 {
		t.Errorf("expected no default programs, got %d", len(cfg.Shaders.Programs))
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "shaderview.yaml")

	yamlContent := `
window:
  title: "water"
  width: 1920
  height: 1080
  vsync: false

shaders:
  version: "450 core"
  preamble_file: "shaders/common.glsl"
  poll_interval: 250ms
  programs:
    - name: water
      files: [shaders/water.vert, shaders/water.frag]
    - name: post
      file: shaders/post.glsl
      stages: [vertex, fragment]

logging:
  level: "debug"
  log_file: "shaders.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Shaders.Version != "450 core" {
		t.Errorf("expected version '450 core', got %q", cfg.Shaders.Version)
	}
	if cfg.Shaders.PollInterval != 250*time.Millisecond {
		t.Errorf("expected poll interval 250ms, got %v", cfg.Shaders.PollInterval)
	}
	if cfg.Shaders.PreambleFile != "shaders/common.glsl" {
		t.Errorf("unexpected preamble file %q", cfg.Shaders.PreambleFile)
	}
	if len(cfg.Shaders.Programs) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(cfg.Shaders.Programs))
	}
	if got := cfg.Shaders.Programs[0].Files; len(got) != 2 || got[1] != "shaders/water.frag" {
		t.Errorf("unexpected files %v", got)
	}
	stages, err := cfg.Shaders.Programs[1].ParsedStages()
	if err != nil {
		t.Fatalf("ParsedStages: %v", err)
	}
	if len(stages) != 2 || stages[0] != shader.Vertex || stages[1] != shader.Fragment {
		t.Errorf("unexpected stages %v", stages)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected loaded config to validate, got %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "shaders.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":      "window:\n  width: not a number\n  invalid syntax here\n",
		"unknown key": "shaders:\n  programs:\n    - name: x\n      filez: [a.vert]\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}
			if err := loadFromFile(Default(), configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Errorf("expected empty file to keep defaults, got %v", err)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("expected default width, got %d", cfg.Window.Width)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/shaderview.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		program ProgramConfig
		wantErr bool
	}{
		{"separate files", ProgramConfig{Name: "a", Files: []string{"a.vert", "a.frag"}}, false},
		{"combined file", ProgramConfig{Name: "b", File: "b.glsl", Stages: []string{"compute"}}, false},
		{"both forms", ProgramConfig{Name: "c", Files: []string{"c.vert"}, File: "c.glsl"}, true},
		{"unknown extension", ProgramConfig{Name: "d", Files: []string{"d.vert", "d.txt"}}, true},
		{"unknown stage", ProgramConfig{Name: "e", File: "e.glsl", Stages: []string{"pixel"}}, true},
		{"combined without stages", ProgramConfig{Name: "f", File: "f.glsl"}, true},
		{"empty", ProgramConfig{Name: "g"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Shaders.Programs = []ProgramConfig{tt.program}
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}

	cfg := Default()
	cfg.Shaders.PollInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero poll interval")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "shaderview.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find shaderview.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "version flag",
			setup: func() { *flagVersion = "330" },
			verify: func(cfg *Config) {
				if cfg.Shaders.Version != "330" {
					t.Errorf("expected version 330, got %s", cfg.Shaders.Version)
				}
			},
			teardown: func() { *flagVersion = "" },
		},
		{
			name:  "preamble flag",
			setup: func() { *flagPreamble = "common.glsl" },
			verify: func(cfg *Config) {
				if cfg.Shaders.PreambleFile != "common.glsl" {
					t.Errorf("expected preamble file common.glsl, got %s", cfg.Shaders.PreambleFile)
				}
			},
			teardown: func() { *flagPreamble = "" },
		},
		{
			name:  "poll flag",
			setup: func() { *flagPoll = 2 * time.Second },
			verify: func(cfg *Config) {
				if cfg.Shaders.PollInterval != 2*time.Second {
					t.Errorf("expected poll interval 2s, got %v", cfg.Shaders.PollInterval)
				}
			},
			teardown: func() { *flagPoll = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "shaderview.yaml")
	yamlContent := `
shaders:
  version: "430"
  poll_interval: 1s
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagVersion = "460"
	defer func() {
		*flagConfig = ""
		*flagVersion = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Version from flag, poll interval from file.
	if cfg.Shaders.Version != "460" {
		t.Errorf("expected version 460 from flag, got %s", cfg.Shaders.Version)
	}
	if cfg.Shaders.PollInterval != time.Second {
		t.Errorf("expected poll interval 1s from file, got %v", cfg.Shaders.PollInterval)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shaderview.yaml")

	cfg := Default()
	cfg.Shaders.Programs = []ProgramConfig{{Name: "sky", Files: []string{"sky.vert", "sky.frag"}}}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if len(loaded.Shaders.Programs) != 1 || loaded.Shaders.Programs[0].Name != "sky" {
		t.Errorf("unexpected programs after reload: %+v", loaded.Shaders.Programs)
	}
	if loaded.Shaders.PollInterval != cfg.Shaders.PollInterval {
		t.Errorf("expected poll interval %v, got %v", cfg.Shaders.PollInterval, loaded.Shaders.PollInterval)
	}
}
