// Package appconf contains app related configurations
package appconf

import (
	"os"
	"time"

	"promptdeck/config"
	devconf "promptdeck/config/environments/development"
	prodconf "promptdeck/config/environments/production"
)

const (
	defaultAutosaveDelay  = 2 * time.Second
	minAutosaveDelay      = 200 * time.Millisecond
	maxAutosaveDelay      = 30 * time.Second
	defaultExecuteTimeout = 30 * time.Second
	minExecuteTimeout     = 1 * time.Second
	maxExecuteTimeout     = 5 * time.Minute
)

var appconf config.AppConfiger

func Port() string {
	return appconf.GetPort()
}

func DataDir() string {
	return appconf.GetDataDir()
}

// AutosaveDelay is how long edits sit before flushing to disk. Clamped so a
// stray env value cannot make autosave thrash or look broken.
func AutosaveDelay() time.Duration {
	return durationEnv("PD_AUTOSAVE_DELAY", defaultAutosaveDelay, minAutosaveDelay, maxAutosaveDelay)
}

// ExecuteTimeout bounds one completion call end to end.
func ExecuteTimeout() time.Duration {
	return durationEnv("PD_EXECUTE_TIMEOUT", defaultExecuteTimeout, minExecuteTimeout, maxExecuteTimeout)
}

func durationEnv(key string, def, min, max time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

func init() {
	env := os.Getenv("APP_ENV")

	switch env {
	case "production":
		appconf = prodconf.New()
	case "development":
		appconf = devconf.New()
	default:
		appconf = devconf.New()
	}
}
