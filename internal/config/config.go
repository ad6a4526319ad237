// Package config handles shaderview configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/shaderset/internal/engine/shader"
)

// Config holds all shaderview settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Shaders ShadersConfig `yaml:"shaders"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// ShadersConfig holds the shader set settings and the programs to watch.
type ShadersConfig struct {
	Version      string          `yaml:"version"`
	Preamble     string          `yaml:"preamble"`
	PreambleFile string          `yaml:"preamble_file"` // read once at startup
	PollInterval time.Duration   `yaml:"poll_interval"`
	Programs     []ProgramConfig `yaml:"programs"`
}

// ProgramConfig describes one program, either as separate files whose stage
// follows from the extension, or as one combined file compiled per stage.
type ProgramConfig struct {
	Name   string   `yaml:"name"`
	Files  []string `yaml:"files,omitempty"`
	File   string   `yaml:"file,omitempty"`
	Stages []string `yaml:"stages,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "shaderview",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Shaders: ShadersConfig{
			Version:      "410 core",
			PollInterval: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the program list and timing settings.
func (c *Config) Validate() error {
	if c.Shaders.PollInterval <= 0 {
		return fmt.Errorf("shaders.poll_interval must be positive, got %s", c.Shaders.PollInterval)
	}
	var errs []error
	for i, p := range c.Shaders.Programs {
		if err := p.validate(); err != nil {
			errs = append(errs, fmt.Errorf("shaders.programs[%d] %q: %w", i, p.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (p ProgramConfig) validate() error {
	switch {
	case len(p.Files) > 0 && p.File != "":
		return errors.New("set either files or file, not both")
	case len(p.Files) > 0:
		for _, f := range p.Files {
			if _, err := shader.StageFromPath(f); err != nil {
				return err
			}
		}
		return nil
	case p.File != "":
		_, err := p.ParsedStages()
		return err
	default:
		return errors.New("no shader files")
	}
}

// ParsedStages converts Stages to shader stages. A combined file needs at least one.
func (p ProgramConfig) ParsedStages() ([]shader.Stage, error) {
	if len(p.Stages) == 0 {
		return nil, errors.New("combined file needs stages")
	}
	stages := make([]shader.Stage, 0, len(p.Stages))
	for _, name := range p.Stages {
		s, err := shader.ParseStage(name)
		if err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, nil
}
