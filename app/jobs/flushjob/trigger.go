package flushjob

import (
	"time"

	"github.com/labstack/gommon/log"
)

const interval = 1 * time.Minute

func Trigger(fn func() error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := fn(); err != nil {
			log.Error("error while running callback: %w", err)
			continue
		}
	}
}
