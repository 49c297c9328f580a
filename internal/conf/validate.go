// conf/validate.go

package conf

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/tphakala/potability-go/internal/logger"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct and reports every problem found
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) error{
		validateWebServerSettings,
		validateModelSettings,
		validateOutputSettings,
		validateMaintenanceSettings,
		validateMQTTSettings,
		validateSentrySettings,
		validateLoggingSettings,
	}
	for _, validate := range validators {
		if err := validate(settings); err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWebServerSettings(s *Settings) error {
	if _, _, err := net.SplitHostPort(s.WebServer.Listen); err != nil {
		return fmt.Errorf("webserver listen address %q is invalid: %w", s.WebServer.Listen, err)
	}
	if s.WebServer.ReadTimeout < 0 || s.WebServer.WriteTimeout < 0 {
		return fmt.Errorf("webserver timeouts must be non-negative")
	}
	if s.WebServer.RateLimit.Enabled {
		if s.WebServer.RateLimit.RPS <= 0 {
			return fmt.Errorf("webserver rate limit rps must be greater than 0")
		}
		if s.WebServer.RateLimit.Burst < 1 {
			return fmt.Errorf("webserver rate limit burst must be at least 1")
		}
	}
	return nil
}

func validateModelSettings(s *Settings) error {
	if s.Model.Path == "" {
		return fmt.Errorf("model path is required")
	}
	switch s.Model.Type {
	case ModelTypeAuto:
		ext := strings.ToLower(filepath.Ext(s.Model.Path))
		if ext != ".tflite" && ext != ".json" {
			return fmt.Errorf("model type auto cannot infer backend from extension %q", ext)
		}
	case ModelTypeTFLite, ModelTypeTree:
	default:
		return fmt.Errorf("model type %q is not supported", s.Model.Type)
	}
	if s.Model.Threshold <= 0 || s.Model.Threshold >= 1 {
		return fmt.Errorf("model threshold must be between 0 and 1 exclusive")
	}
	if s.Model.Threads < 0 {
		return fmt.Errorf("model threads must be non-negative")
	}
	if s.Model.Cache.Enabled && s.Model.Cache.TTL <= 0 {
		return fmt.Errorf("model cache ttl must be positive when the cache is enabled")
	}
	return nil
}

func validateOutputSettings(s *Settings) error {
	sqlite, mysql := s.Output.SQLite, s.Output.MySQL
	switch {
	case sqlite.Enabled && mysql.Enabled:
		return fmt.Errorf("only one of output.sqlite and output.mysql can be enabled")
	case !sqlite.Enabled && !mysql.Enabled:
		return fmt.Errorf("a record store must be enabled: output.sqlite or output.mysql")
	case sqlite.Enabled && sqlite.Path == "":
		return fmt.Errorf("output.sqlite.path is required")
	case mysql.Enabled && (mysql.Host == "" || mysql.Database == "" || mysql.Username == ""):
		return fmt.Errorf("output.mysql requires host, database and username")
	}
	return nil
}

func validateMaintenanceSettings(s *Settings) error {
	if !s.Maintenance.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(s.Maintenance.Schedule); err != nil {
		return fmt.Errorf("maintenance schedule %q is invalid: %w", s.Maintenance.Schedule, err)
	}
	return nil
}

func validateMQTTSettings(s *Settings) error {
	if !s.MQTT.Enabled {
		return nil
	}
	if err := validateEnvBrokerURL(s.MQTT.Broker); err != nil {
		return fmt.Errorf("mqtt broker %q: %w", s.MQTT.Broker, err)
	}
	if s.MQTT.Topic == "" {
		return fmt.Errorf("mqtt topic is required when mqtt is enabled")
	}
	return nil
}

func validateSentrySettings(s *Settings) error {
	if s.Sentry.Enabled && s.Sentry.DSN == "" {
		return fmt.Errorf("sentry dsn is required when sentry is enabled")
	}
	return nil
}

func validateLoggingSettings(s *Settings) error {
	if !logger.ValidLevel(s.Logging.Level) {
		return fmt.Errorf("logging level %q is not supported", s.Logging.Level)
	}
	if s.Logging.File.Enabled && s.Logging.File.Path == "" {
		return fmt.Errorf("logging file path is required when file logging is enabled")
	}
	return nil
}
