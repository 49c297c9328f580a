package conf

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

// validSettings returns settings that pass ValidateSettings.
func validSettings(t *testing.T) *Settings {
	t.Helper()

	s := &Settings{}
	s.Main.Name = "potability"
	s.WebServer.Listen = "127.0.0.1:8000"
	s.WebServer.ReadTimeout = 15 * time.Second
	s.WebServer.WriteTimeout = 30 * time.Second
	s.Model.Type = ModelTypeAuto
	s.Model.Path = "model/water_quality_tree.json"
	s.Model.Threshold = 0.5
	s.Model.Cache.Enabled = true
	s.Model.Cache.TTL = time.Minute
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = "potability.db"
	s.Maintenance.Enabled = true
	s.Maintenance.Schedule = "0 * * * *"
	s.Logging.Level = "info"
	return s
}

// isolateViper gives the test a clean viper instance, working directory and home.
func isolateViper(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	t.Cleanup(viper.Reset)
	return dir
}
