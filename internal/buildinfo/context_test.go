package buildinfo

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := New()

	assert.Equal(t, "dev", ctx.Version)
	_, err := uuid.Parse(ctx.InstanceID)
	require.NoError(t, err)
	assert.NotEqual(t, ctx.InstanceID, New().InstanceID)
}

func TestUptime(t *testing.T) {
	ctx := &Context{StartedAt: time.Now().Add(-time.Minute)}
	assert.GreaterOrEqual(t, ctx.Uptime(), time.Minute)
}
