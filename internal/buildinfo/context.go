// Package buildinfo contains build-time metadata separate from user configuration
package buildinfo

import (
	"time"

	"github.com/google/uuid"
)

// Set with -ldflags "-X github.com/tphakala/potability-go/internal/buildinfo.version=..."
var (
	version   = "dev"
	buildDate = "unknown"
)

// Context contains build-time metadata that is not user-configurable.
// It is created once at startup and passed to components that report it.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string

	// InstanceID identifies this process in telemetry and health output
	InstanceID string

	// StartedAt is the process start time, used for uptime
	StartedAt time.Time
}

// New returns the build context of the running binary.
func New() *Context {
	return &Context{
		Version:    version,
		BuildDate:  buildDate,
		InstanceID: uuid.NewString(),
		StartedAt:  time.Now(),
	}
}

// Uptime returns the time elapsed since the process started.
func (c *Context) Uptime() time.Duration {
	return time.Since(c.StartedAt)
}
