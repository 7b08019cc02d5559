package instance

import (
	"os"

	"github.com/kdcar/kdcar-backend/pkg/env"
)

// GetID returns the process instance identifier: the platform dyno name,
// then the host name, then "local".
func GetID() string {
	if id := env.First("", "DYNO", "HOSTNAME"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
