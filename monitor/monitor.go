package monitor

import (
	"time"

	"journal-api/config"
)

var startedAt = time.Now()

// Snapshot reports process uptime and database reachability for the health
// endpoint.
func Snapshot() map[string]interface{} {
	dbStatus := "ok"
	if config.DB == nil {
		dbStatus = "not connected"
	} else if sqlDB, err := config.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unreachable"
	}

	return map[string]interface{}{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(startedAt).Round(time.Second).String(),
	}
}
