// Package metrics provides custom Prometheus metrics for the potability service.
package metrics

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Datastore operation label values.
const (
	OpSave     = "save"
	OpGetAll   = "get_all"
	OpGet      = "get"
	OpDelete   = "delete"
	OpCount    = "count"
	OpPing     = "ping"
	OpOptimize = "optimize"
)

// Cache result label values.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)
