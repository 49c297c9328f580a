package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/potability-go/internal/conf"
)

func TestConfigMasksSecrets(t *testing.T) {
	settings := &conf.Settings{}
	settings.Output.MySQL.Enabled = true
	settings.Output.MySQL.Password = "hunter2"
	settings.MQTT.Password = "mqtt-secret"

	cmd := Command(settings)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.NotContains(t, out.String(), "hunter2")
	assert.NotContains(t, out.String(), "mqtt-secret")

	var dumped conf.Settings
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &dumped))
	assert.True(t, dumped.Output.MySQL.Enabled)
	assert.Equal(t, "hunter2", settings.Output.MySQL.Password, "settings must not be modified")
}

func TestConfigDefaults(t *testing.T) {
	cmd := Command(&conf.Settings{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--defaults"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, string(conf.DefaultConfig()), out.String())
	assert.Contains(t, out.String(), "webserver:")
}

func TestConfigPath(t *testing.T) {
	t.Run("file read by viper", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		configFile := filepath.Join(t.TempDir(), "custom.yaml")
		viper.SetConfigFile(configFile)

		out, err := runConfig(t, &conf.Settings{}, "--path")
		require.NoError(t, err)
		assert.Equal(t, configFile+"\n", out)
	})

	t.Run("found in working directory", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("HOME", t.TempDir())
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), conf.DefaultConfig(), 0o644))

		out, err := runConfig(t, &conf.Settings{}, "--path")
		require.NoError(t, err)
		assert.Equal(t, "config.yaml\n", out)
	})

	t.Run("no config file", func(t *testing.T) {
		viper.Reset()
		t.Cleanup(viper.Reset)
		t.Chdir(t.TempDir())
		t.Setenv("HOME", t.TempDir())

		_, err := runConfig(t, &conf.Settings{}, "--path")
		require.Error(t, err)
	})
}

func TestConfigWrite(t *testing.T) {
	settings := &conf.Settings{}
	settings.Main.Name = "plant-a"
	settings.Output.MySQL.Password = "hunter2"
	target := filepath.Join(t.TempDir(), "config.yaml")

	out, err := runConfig(t, settings, "--write", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var written conf.Settings
	require.NoError(t, yaml.Unmarshal(data, &written))
	assert.Equal(t, "plant-a", written.Main.Name)
	assert.Equal(t, "hunter2", written.Output.MySQL.Password, "written config must stay loadable")
}

func TestConfigFlagsAreExclusive(t *testing.T) {
	_, err := runConfig(t, &conf.Settings{}, "--defaults", "--path")
	require.Error(t, err)
}

func runConfig(t *testing.T, settings *conf.Settings, args ...string) (string, error) {
	t.Helper()
	cmd := Command(settings)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}
