package instance

import (
	"os"

	"github.com/angelmondragon/salespulse-backend/pkg/env"
)

// GetID returns the worker instance identifier used in lock owner values.
// SALESPULSE_WORKER_ID wins, then the container hostname, then "worker-0".
func GetID() string {
	if id := env.Get("SALESPULSE_WORKER_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
