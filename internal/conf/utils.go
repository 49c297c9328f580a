package conf

import (
	"os"
	"path/filepath"

	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/logger"
)

// GetDefaultConfigPaths returns the directories searched for config.yaml. If
// one of them already holds a config file only that directory is returned.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get-home-directory").
			Build()
	}

	configPaths := []string{
		".",
		filepath.Join(homeDir, ".config", "potability"),
		"/etc/potability",
	}

	for _, path := range configPaths {
		if _, err := os.Stat(filepath.Join(path, "config.yaml")); err == nil {
			return []string{path}, nil
		}
	}
	return configPaths, nil
}

// FindConfigFile returns the path of the first existing config.yaml.
func FindConfigFile() (string, error) {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return "", err
	}
	for _, path := range configPaths {
		configFilePath := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFilePath); err == nil {
			return configFilePath, nil
		}
	}
	return "", errors.Newf("config file not found").
		Category(errors.CategoryFileIO).
		Context("operation", "find-config-file").
		Build()
}

// LoggingConfig converts the logging section into the logger package's config.
func (s *Settings) LoggingConfig() *logger.LoggingConfig {
	level := s.Logging.Level
	if s.Debug && level == "info" {
		level = "debug"
	}
	cfg := &logger.LoggingConfig{Level: level}
	if f := s.Logging.File; f.Enabled {
		cfg.File = &logger.FileOutput{
			Enabled:    true,
			Path:       f.Path,
			MaxSize:    f.MaxSize,
			MaxAge:     f.MaxAge,
			MaxBackups: f.MaxBackups,
			Compress:   f.Compress,
		}
	}
	return cfg
}
