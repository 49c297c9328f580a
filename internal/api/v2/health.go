// internal/api/v2/health.go
package api

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/tphakala/potability-go/internal/cpuspec"
	"github.com/tphakala/potability-go/internal/logger"
	"github.com/tphakala/potability-go/internal/predictor"
)

const healthCheckTimeout = 2 * time.Second

// HealthResponse is the body of GET /api/v2/health.
type HealthResponse struct {
	Status        string              `json:"status"`
	Version       string              `json:"version"`
	BuildDate     string              `json:"build_date"`
	InstanceID    string              `json:"instance_id"`
	Timestamp     string              `json:"timestamp"`
	Uptime        string              `json:"uptime"`
	UptimeSeconds float64             `json:"uptime_seconds"`
	Database      DatabaseHealth      `json:"database"`
	Model         predictor.ModelInfo `json:"model"`
	System        SystemHealth        `json:"system"`
}

// DatabaseHealth reports record store connectivity.
type DatabaseHealth struct {
	Backend string `json:"backend"`
	Status  string `json:"status"`
	Records int64  `json:"records"`
	Error   string `json:"error,omitempty"`
}

// SystemHealth reports host and process resource usage.
type SystemHealth struct {
	Goroutines        int          `json:"goroutines"`
	CPU               cpuspec.Spec `json:"cpu"`
	ProcessRSSMB      uint64       `json:"process_rss_mb"`
	MemoryTotalMB     uint64       `json:"memory_total_mb"`
	MemoryUsedPercent float64      `json:"memory_used_percent"`
}

// HealthCheck reports service, database and model status. A failing
// database marks the service degraded but still answers 200.
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse "Service, database and model status"
// @Router /api/v2/health [get]
func (c *Controller) HealthCheck(ctx echo.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), healthCheckTimeout)
	defer cancel()

	uptime := c.Build.Uptime()
	response := HealthResponse{
		Status:        "healthy",
		Version:       c.Build.Version,
		BuildDate:     c.Build.BuildDate,
		InstanceID:    c.Build.InstanceID,
		Timestamp:     time.Now().Format(time.RFC3339),
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: uptime.Seconds(),
		Database:      DatabaseHealth{Backend: c.DS.Backend(), Status: "connected"},
		Model:         c.Predictor.Info(),
		System:        c.systemHealth(reqCtx),
	}

	if err := c.DS.Ping(reqCtx); err != nil {
		response.Status = "degraded"
		response.Database.Status = "disconnected"
		response.Database.Error = err.Error()
	} else if n, err := c.DS.Count(reqCtx); err == nil {
		response.Database.Records = n
	}

	return ctx.JSON(http.StatusOK, response)
}

// systemHealth samples memory statistics; unavailable values are left zero.
func (c *Controller) systemHealth(ctx context.Context) SystemHealth {
	health := SystemHealth{
		Goroutines: runtime.NumGoroutine(),
		CPU:        cpuspec.Detect(),
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		health.MemoryTotalMB = vm.Total / 1024 / 1024
		health.MemoryUsedPercent = vm.UsedPercent
	} else {
		c.logger.Debug("failed to get virtual memory stats", logger.Error(err))
	}

	if proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfoWithContext(ctx); err == nil {
			health.ProcessRSSMB = info.RSS / 1024 / 1024
		}
	}

	return health
}
