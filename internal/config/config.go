package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"cbenchf/pkg/settings"
)

const (
	// AppName names the XDG config subdirectory.
	AppName = "cbenchf"

	// EnvPrefix is prepended to setting keys when reading the environment.
	EnvPrefix = "CBENCHF"
)

// flagKeys maps CLI flag names onto setting keys.
var flagKeys = map[string]string{
	"socket":         "socket_path",
	"runtime-binary": "runtime_binary",
	"image":          "default_image",
	"detach":         "detached",
	"log-level":      "log_level",
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load resolves the settings for one invocation. Values are taken, from highest
// to lowest precedence, from changed flags, CBENCHF_* environment variables,
// the config file and the built-in defaults.
//
// When filePath is empty the file is looked up as config.yaml in the XDG config
// directory and then the working directory; not finding one is not an error.
// flags may be nil.
func Load(filePath string, flags *pflag.FlagSet) (*settings.Settings, error) {
	v := viper.New()

	defaults := settings.Default()
	v.SetDefault("socket_path", defaults.SocketPath)
	v.SetDefault("runtime_binary", defaults.RuntimeBinary)
	v.SetDefault("default_image", defaults.DefaultImage)
	v.SetDefault("detached", defaults.Detached)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if filePath != "" {
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", filePath)
		}
		v.SetConfigFile(filePath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if filePath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var s settings.Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse config file - malformed YAML: %w", err)
	}

	if err := Validate(&s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks s against its struct tags.
func Validate(s *settings.Settings) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// bindFlags wires the flags present in the set to their setting keys.
// Only flags the user changed win over the environment and config file.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, formatFieldError(e))
		}

		if len(errorMessages) == 1 {
			return fmt.Errorf("validation error: %s", errorMessages[0])
		}

		result := "validation errors:\n"
		for _, msg := range errorMessages {
			result += fmt.Sprintf("  - %s\n", msg)
		}
		return fmt.Errorf("%s", result)
	}
	return fmt.Errorf("validation failed: %w", err)
}

// formatFieldError formats a single validation error into a user-friendly message.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("field '%s' must be an absolute path", field)
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, tag)
	}
}
