package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/rtc-alarm/internal/logger"
)

// Storage backends.
const (
	// StorageFile keeps the alarm record in a JSON file.
	StorageFile = "file"
	// StorageSQLite keeps the alarm record in a SQLite key/value table.
	StorageSQLite = "sqlite"
)

// Config holds the settings shared by rtc-alarmd and rtc-alarmctl.
type Config struct {
	// ControlAddress is the gRPC control API address.
	ControlAddress string `yaml:"control_addr"`
	// HTTPAddress enables the HTTP debug API when set.
	HTTPAddress string `yaml:"http_addr"`
	// Storage selects the alarm record backend: "file" or "sqlite".
	Storage string `yaml:"storage"`
	// StateFile is the alarm record file (or SQLite database) path.
	StateFile string `yaml:"state_file"`
	// PollInterval is the power loop tick period.
	PollInterval time.Duration `yaml:"poll_interval"`
	// Timeout is the duration of client RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level"`
	// LogFile enables a rotating JSON log file when set.
	LogFile string `yaml:"log_file"`
	// RTCDrift is how far the simulated RTC runs ahead of the host clock.
	RTCDrift time.Duration `yaml:"rtc_drift"`
}

const (
	// DefaultConfigFilename is the default settings filename.
	DefaultConfigFilename = "rtc-alarm-settings.yaml"
	// DefaultStateFilename is the default alarm record filename.
	DefaultStateFilename = "rtc-alarm.json"
	// DefaultControlAddress is the default gRPC control address.
	DefaultControlAddress = "127.0.0.1:50061"
	// DefaultPollInterval is the default power loop tick period.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultTimeout is the default duration of client RPC calls.
	DefaultTimeout = 5 * time.Second
	// DefaultFilePermissions is the permission of the settings file.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownStorage is returned for an unsupported storage backend.
	errUnknownStorage = errors.New("storage must be \"file\" or \"sqlite\"")
	// errUnknownLogLevel is returned for an unparsable log level.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings with every default applied.
func Default() *Config {
	cfg := new(Config)

	//nolint:errcheck // Defaults always validate.
	_ = Validate(cfg)

	return cfg
}

// Load reads settings from path. A missing file at the default path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultConfigFilename {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills in defaults for empty fields.
func Validate(settings *Config) error {
	if settings.ControlAddress == "" {
		settings.ControlAddress = DefaultControlAddress
	}

	if _, _, err := net.SplitHostPort(settings.ControlAddress); err != nil {
		return fmt.Errorf("invalid control address: %w", err)
	}

	if settings.HTTPAddress != "" {
		if _, _, err := net.SplitHostPort(settings.HTTPAddress); err != nil {
			return fmt.Errorf("invalid http address: %w", err)
		}
	}

	switch settings.Storage {
	case "":
		settings.Storage = StorageFile
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("%q: %w", settings.Storage, errUnknownStorage)
	}

	if settings.StateFile == "" {
		settings.StateFile = DefaultStateFilename
	}

	if settings.PollInterval <= 0 {
		settings.PollInterval = DefaultPollInterval
	}

	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%q: %w", settings.LogLevel, errUnknownLogLevel)
	}

	return nil
}
