package settings

import "log/slog"

const (
	// DefaultSocketPath is where the Docker daemon listens on most Linux hosts.
	DefaultSocketPath = "/var/run/docker.sock"

	// DefaultRuntimeBinary is the container runtime CLI invoked for runs.
	DefaultRuntimeBinary = "docker"

	// DefaultLogLevel is used when log_level is not configured.
	DefaultLogLevel = "info"
)

// Settings holds the deployment parameters for a cbenchf execution.
// It's populated from config.yaml, CBENCHF_* environment variables and CLI flags.
type Settings struct {
	SocketPath    string `mapstructure:"socket_path" yaml:"socket_path" validate:"required,startswith=/"`
	RuntimeBinary string `mapstructure:"runtime_binary" yaml:"runtime_binary" validate:"required"`
	DefaultImage  string `mapstructure:"default_image" yaml:"default_image"`
	Detached      bool   `mapstructure:"detached" yaml:"detached"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level" validate:"required,oneof=debug info warn error"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		SocketPath:    DefaultSocketPath,
		RuntimeBinary: DefaultRuntimeBinary,
		Detached:      true,
		LogLevel:      DefaultLogLevel,
	}
}

// SlogLevel maps LogLevel onto a slog level, falling back to info.
func (s *Settings) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
