package conf

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/tphakala/potability-go/internal/logger"
)

// Watch reloads the config file whenever it changes on disk and hands the
// validated settings to onChange. Invalid edits are logged and ignored.
// Only settings that are safe to change at runtime should be applied by onChange.
func Watch(log logger.Logger, onChange func(*Settings)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		settings, err := reload()
		if err != nil {
			log.Warn("ignoring invalid config change",
				logger.String("file", e.Name),
				logger.Error(err))
			return
		}
		log.Info("config reloaded", logger.String("file", e.Name))
		onChange(settings)
	})
	viper.WatchConfig()
}

func reload() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}
