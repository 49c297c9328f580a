// env.go - environment variable configuration and validation
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tphakala/potability-go/internal/logger"
)

// envBinding holds metadata for an explicit environment variable binding
type envBinding struct {
	ConfigKey string
	EnvVar    string
	Validate  func(string) error
}

// getEnvBindings lists variables whose values are checked before use.
// Every other key is still reachable through AutomaticEnv as POTABILITY_<KEY>.
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "POTABILITY_DEBUG", validateEnvBool},
		{"webserver.listen", "POTABILITY_LISTEN", validateEnvListen},

		{"model.type", "POTABILITY_MODEL_TYPE", validateEnvModelType},
		{"model.path", "POTABILITY_MODEL_PATH", validateEnvPath},
		{"model.threshold", "POTABILITY_MODEL_THRESHOLD", validateEnvThreshold},
		{"model.threads", "POTABILITY_MODEL_THREADS", validateEnvThreads},

		{"output.mysql.enabled", "POTABILITY_MYSQL_ENABLED", validateEnvBool},
		{"output.mysql.host", "POTABILITY_MYSQL_HOST", nil},
		{"output.mysql.port", "POTABILITY_MYSQL_PORT", validateEnvPort},
		{"output.mysql.username", "POTABILITY_MYSQL_USERNAME", nil},
		{"output.mysql.password", "POTABILITY_MYSQL_PASSWORD", nil},
		{"output.mysql.database", "POTABILITY_MYSQL_DATABASE", nil},

		{"mqtt.broker", "POTABILITY_MQTT_BROKER", validateEnvBrokerURL},
		{"sentry.dsn", "POTABILITY_SENTRY_DSN", nil},
		{"logging.level", "POTABILITY_LOG_LEVEL", validateEnvLogLevel},
	}
}

// bindEnvVars binds the explicit variables and collects every invalid value
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate == nil {
			continue
		}
		if envValue := os.Getenv(binding.EnvVar); envValue != "" {
			if err := binding.Validate(envValue); err != nil {
				shown := envValue
				if logger.IsSensitiveKey(binding.ConfigKey) {
					shown = redacted
				}
				warnings = append(warnings, fmt.Sprintf("Invalid %s value '%s': %v", binding.EnvVar, shown, err))
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}
	return nil
}

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(value); err != nil {
		return fmt.Errorf("must be true or false")
	}
	return nil
}

func validateEnvListen(value string) error {
	if !strings.Contains(value, ":") {
		return fmt.Errorf("must be host:port")
	}
	return nil
}

func validateEnvModelType(value string) error {
	switch value {
	case ModelTypeAuto, ModelTypeTFLite, ModelTypeTree:
		return nil
	}
	return fmt.Errorf("must be one of %s, %s, %s", ModelTypeAuto, ModelTypeTFLite, ModelTypeTree)
}

func validateEnvPath(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("path cannot be blank")
	}
	return nil
}

func validateEnvThreshold(value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if f <= 0 || f >= 1 {
		return fmt.Errorf("must be between 0 and 1 exclusive")
	}
	return nil
}

func validateEnvThreads(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("must be a non-negative integer")
	}
	return nil
}

func validateEnvPort(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("must be a port between 1 and 65535")
	}
	return nil
}

func validateEnvBrokerURL(value string) error {
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be a URL such as tcp://host:1883")
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	if !logger.ValidLevel(value) {
		return fmt.Errorf("must be trace, debug, info, warn or error")
	}
	return nil
}

// loadDotEnv reads .env from the working directory if present. Variables
// already set in the process environment are not overridden.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// configureEnvironmentVariables sets up environment variable support for viper
func configureEnvironmentVariables() error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return bindEnvVars()
}
