// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "potability")

	viper.SetDefault("webserver.listen", "0.0.0.0:8000")
	viper.SetDefault("webserver.readtimeout", 15*time.Second)
	viper.SetDefault("webserver.writetimeout", 30*time.Second)
	viper.SetDefault("webserver.ratelimit.enabled", false)
	viper.SetDefault("webserver.ratelimit.rps", 20.0)
	viper.SetDefault("webserver.ratelimit.burst", 40)

	viper.SetDefault("model.type", ModelTypeAuto)
	viper.SetDefault("model.path", "model/water_quality_tree.json")
	viper.SetDefault("model.threshold", 0.5)
	viper.SetDefault("model.threads", 0)
	viper.SetDefault("model.cache.enabled", true)
	viper.SetDefault("model.cache.ttl", 10*time.Minute)

	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "potability.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "potability")
	viper.SetDefault("output.mysql.password", "")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
	viper.SetDefault("output.mysql.database", "potability")

	viper.SetDefault("maintenance.enabled", true)
	viper.SetDefault("maintenance.schedule", "0 * * * *")

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.clientid", "")
	viper.SetDefault("mqtt.topic", "potability/records")
	viper.SetDefault("mqtt.retain", false)

	viper.SetDefault("telemetry.enabled", true)

	viper.SetDefault("sentry.enabled", false)
	viper.SetDefault("sentry.dsn", "")
	viper.SetDefault("sentry.environment", "production")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file.enabled", false)
	viper.SetDefault("logging.file.path", "logs/potability.log")
	viper.SetDefault("logging.file.maxsize", 100)
	viper.SetDefault("logging.file.maxage", 30)
	viper.SetDefault("logging.file.maxbackups", 5)
	viper.SetDefault("logging.file.compress", true)
}
