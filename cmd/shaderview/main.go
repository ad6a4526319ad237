// shaderview opens a window and draws a full-screen pass with hot-reloaded
// shader programs. Edit a watched file and the program is recompiled and
// relinked on the next poll.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/shaderset/internal/config"
	"github.com/Faultbox/shaderset/internal/engine/gldevice"
	"github.com/Faultbox/shaderset/internal/engine/shader"
	"github.com/Faultbox/shaderset/internal/engine/window"
	"github.com/Faultbox/shaderset/internal/logger"
)

func main() {
	config.ParseFlags()

	if path := config.InitPath(); path != "" {
		if err := config.Default().SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("shaderview failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Close()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	set := shader.New(gldevice.New())
	defer set.Close()

	set.SetVersion(cfg.Shaders.Version)
	set.SetPreamble(cfg.Shaders.Preamble)
	if cfg.Shaders.PreambleFile != "" {
		if err := set.SetPreambleFile(cfg.Shaders.PreambleFile); err != nil {
			return err
		}
	}

	entries, err := registerPrograms(set, cfg.Shaders.Programs, config.Args())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no programs configured")
	}
	logger.Info("watching shaders",
		zap.Int("programs", set.ProgramCount()),
		zap.Int("shaders", set.ShaderCount()),
		zap.Duration("poll", cfg.Shaders.PollInterval),
	)

	v := newViewer(win, entries)
	defer v.close()

	set.UpdatePrograms()
	lastPoll := time.Now()
	start := lastPoll

	for {
		for _, e := range win.Poll() {
			switch e.Type {
			case window.EventQuit:
				return nil
			case window.EventResize:
				v.resize(e.Width, e.Height)
			case window.EventKeyDown:
				switch {
				case e.Key == sdl.K_ESCAPE:
					return nil
				case e.Key == sdl.K_r:
					set.UpdatePrograms()
					lastPoll = time.Now()
				case e.Key >= sdl.K_1 && e.Key <= sdl.K_9:
					v.selectProgram(int(e.Key - sdl.K_1))
				}
			}
		}

		if time.Since(lastPoll) >= cfg.Shaders.PollInterval {
			set.UpdatePrograms()
			lastPoll = time.Now()
		}

		v.draw(float32(time.Since(start).Seconds()))
		win.SwapBuffers()
	}
}
