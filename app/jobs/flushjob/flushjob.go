// Package flushjob periodically flushes staged edits to disk so a long-lived
// editing session cannot hold unsaved work indefinitely.
package flushjob

func Register(flush func() error) {
	go Trigger(flush)
}
