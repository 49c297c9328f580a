package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
)

func testSettings(t *testing.T) *conf.Settings {
	t.Helper()
	s := &conf.Settings{}
	s.Main.Name = "potability-test"
	s.WebServer.Listen = "127.0.0.1:0"
	s.Model.Type = conf.ModelTypeTree
	s.Model.Path = filepath.Join("..", "..", "model", "water_quality_tree.json")
	s.Model.Threshold = 0.5
	s.Output.SQLite.Enabled = true
	s.Output.SQLite.Path = filepath.Join(t.TempDir(), "records.db")
	s.Telemetry.Enabled = true
	s.Logging.Level = "error"
	return s
}

func TestRunStopsOnContextCancel(t *testing.T) {
	settings := testSettings(t)
	settings.Maintenance.Enabled = true
	settings.Maintenance.Schedule = "0 * * * *"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, settings) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.FileExists(t, settings.Output.SQLite.Path)
}

func TestRunFailsOnMissingModel(t *testing.T) {
	settings := testSettings(t)
	settings.Model.Path = filepath.Join(t.TempDir(), "missing.json")

	err := Run(context.Background(), settings)
	require.Error(t, err)
	assert.NoFileExists(t, settings.Output.SQLite.Path, "store must not be opened without a model")
}

func TestRunFailsWithoutStore(t *testing.T) {
	settings := testSettings(t)
	settings.Output.SQLite.Enabled = false

	err := Run(context.Background(), settings)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestRunFailsOnInvalidListenAddress(t *testing.T) {
	settings := testSettings(t)
	settings.WebServer.Listen = "127.0.0.1:-1"

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := Run(ctx, settings)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
}
