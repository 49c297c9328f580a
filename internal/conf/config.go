// config.go: settings struct for the potability service and functions to load and save it.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/potability-go/internal/errors"
)

//go:embed config.yaml
var configFiles embed.FS

// WebServerSettings configures the HTTP API listener.
type WebServerSettings struct {
	Listen       string        `yaml:"listen"`       // host:port the API binds to
	ReadTimeout  time.Duration `yaml:"readtimeout"`  // maximum duration for reading a request
	WriteTimeout time.Duration `yaml:"writetimeout"` // maximum duration for writing a response
	RateLimit    struct {
		Enabled bool    `yaml:"enabled"`
		RPS     float64 `yaml:"rps"`   // sustained requests per second per client IP
		Burst   int     `yaml:"burst"` // burst allowance per client IP
	} `yaml:"ratelimit"`
}

// ModelSettings selects and tunes the potability classifier.
type ModelSettings struct {
	Type      string  `yaml:"type"`      // auto, tflite or tree
	Path      string  `yaml:"path"`      // model artifact on disk
	Threshold float64 `yaml:"threshold"` // probability cut-off for single-output tflite models
	Threads   int     `yaml:"threads"`   // tflite interpreter threads, 0 for all cores
	Cache     struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
}

// SQLiteSettings configures the SQLite record store.
type SQLiteSettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MySQLSettings configures the MySQL record store.
type MySQLSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

// MQTTSettings configures publication of new records to a broker.
type MQTTSettings struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`   // e.g. tcp://localhost:1883
	ClientID string `yaml:"clientid"` // generated when empty
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	Retain   bool   `yaml:"retain"`
}

// LogFileSettings configures the rotated JSON log file.
type LogFileSettings struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxSize    int    `yaml:"maxsize"` // megabytes
	MaxAge     int    `yaml:"maxage"`  // days
	MaxBackups int    `yaml:"maxbackups"`
	Compress   bool   `yaml:"compress"`
}

// Settings contains all configuration options for the service.
type Settings struct {
	Debug bool `yaml:"debug"`

	Main struct {
		Name string `yaml:"name"` // instance name, reported in health and MQTT payloads
	} `yaml:"main"`

	WebServer WebServerSettings `yaml:"webserver"`

	Model ModelSettings `yaml:"model"`

	Output struct {
		SQLite SQLiteSettings `yaml:"sqlite"`
		MySQL  MySQLSettings  `yaml:"mysql"`
	} `yaml:"output"`

	Maintenance struct {
		Enabled  bool   `yaml:"enabled"`
		Schedule string `yaml:"schedule"` // cron expression
	} `yaml:"maintenance"`

	MQTT MQTTSettings `yaml:"mqtt"`

	Telemetry struct {
		Enabled bool `yaml:"enabled"` // expose Prometheus metrics on /metrics
	} `yaml:"telemetry"`

	Sentry struct {
		Enabled     bool   `yaml:"enabled"`
		DSN         string `yaml:"dsn"`
		Environment string `yaml:"environment"`
	} `yaml:"sentry"`

	Logging struct {
		Level string          `yaml:"level"`
		File  LogFileSettings `yaml:"file"`
	} `yaml:"logging"`
}

// settingsMutex serializes Load and config reloads, both of which go through viper.
var settingsMutex sync.Mutex

// Load reads the configuration file, the .env file and environment variables
// into a validated Settings instance.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal-settings").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	return settings, nil
}

// initViper sets defaults, environment bindings and reads the config file,
// writing the embedded default config when none exists yet.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		return err
	}

	// An explicit --config flag wins over the search paths
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return createDefaultConfig(configPaths)
		}
		return errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "read-config").
			Build()
	}

	return nil
}

// createDefaultConfig writes the embedded config to the first writable search path.
func createDefaultConfig(configPaths []string) error {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return fmt.Errorf("error reading embedded config: %w", err)
	}

	var lastErr error
	for _, dir := range configPaths {
		configPath := filepath.Join(dir, "config.yaml")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			lastErr = err
			continue
		}
		if err := os.WriteFile(configPath, data, 0o644); err != nil {
			lastErr = err
			continue
		}
		fmt.Println("Created default config file at:", configPath)
		viper.SetConfigFile(configPath)
		return viper.ReadInConfig()
	}

	// Defaults and environment still apply without a file
	if lastErr != nil {
		fmt.Fprintf(os.Stderr, "Could not write default config file: %v\n", lastErr)
	}
	return nil
}

// DefaultConfig returns the embedded default configuration file.
func DefaultConfig() []byte {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		return nil
	}
	return data
}

// Dump renders settings as YAML with secrets masked.
func Dump(settings *Settings) ([]byte, error) {
	masked := *settings
	if masked.Output.MySQL.Password != "" {
		masked.Output.MySQL.Password = redacted
	}
	if masked.MQTT.Password != "" {
		masked.MQTT.Password = redacted
	}
	if masked.Sentry.DSN != "" {
		masked.Sentry.DSN = redacted
	}
	return yaml.Marshal(&masked)
}

const redacted = "[REDACTED]"

// SaveYAMLConfig writes settings to configPath via a temporary file and rename.
// Comments and ordering of the existing file are not preserved.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer os.Remove(tempFileName)

	if _, err := tempFile.Write(yamlData); err != nil {
		tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := os.Rename(tempFileName, configPath); err != nil {
		return fmt.Errorf("error replacing config file: %w", err)
	}
	return nil
}
