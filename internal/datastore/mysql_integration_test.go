//go:build integration

package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
	"go.uber.org/goleak"

	"github.com/tphakala/potability-go/internal/conf"
	"github.com/tphakala/potability-go/internal/errors"
	"github.com/tphakala/potability-go/internal/waterquality"
)

func init() {
	// the docker client keeps idle HTTP connections and the reaper alive
	leakOptions = append(leakOptions, goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreAnyFunction("internal/poll.runtime_pollWait"))
}

func startMySQL(t *testing.T) conf.MySQLSettings {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := tcmysql.Run(ctx, "mysql:8.4",
		tcmysql.WithDatabase("potability"),
		tcmysql.WithUsername("potability"),
		tcmysql.WithPassword("potability"),
	)
	t.Cleanup(func() {
		assert.NoError(t, testcontainers.TerminateContainer(container))
	})
	require.NoError(t, err, "failed to start MySQL container")

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	return conf.MySQLSettings{
		Enabled:  true,
		Username: "potability",
		Password: "potability",
		Host:     host,
		Port:     port.Port(),
		Database: "potability",
	}
}

func TestMySQLStoreIntegration(t *testing.T) {
	settings := &conf.Settings{}
	settings.Output.MySQL = startMySQL(t)

	store, err := New(settings, WithLogger(testLogger()))
	require.NoError(t, err)
	require.NoError(t, store.Open())
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	record := NewWaterQuality(sampleMeasurements(), waterquality.Potable)
	require.NoError(t, store.Save(ctx, record))
	require.NotZero(t, record.ID)

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sampleMeasurements(), records[0].Measurements())

	require.NoError(t, store.Optimize(ctx))
	require.NoError(t, store.Delete(ctx, record.ID))
	assert.True(t, errors.IsNotFound(store.Delete(ctx, record.ID)))
}
