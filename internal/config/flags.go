package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagVersion  = flag.String("version", "", "GLSL version directive (e.g. \"410 core\")")
	flagPreamble = flag.String("preamble", "", "Preamble file prepended to every shader")
	flagPoll     = flag.Duration("poll", 0, "Shader file poll interval")
	flagInit     = flag.String("init", "", "Write the default config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// InitPath returns the path given via --init, if any.
func InitPath() string {
	return *flagInit
}

// Args returns the positional arguments: shader files forming one extra program.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagVersion != "" {
		cfg.Shaders.Version = *flagVersion
	}
	if *flagPreamble != "" {
		cfg.Shaders.PreambleFile = *flagPreamble
	}
	if *flagPoll > 0 {
		cfg.Shaders.PollInterval = *flagPoll
	}
}
