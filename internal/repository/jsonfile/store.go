// Package jsonfile implements the domain repositories over two JSON
// documents, tasks.json and config.json, in a data directory. Every write
// replaces the whole document through a temp file and an atomic rename; a
// read that fails yields an empty collection, never an error.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// readDocument decodes the JSON document at path into v. A missing file is
// normal first-run state; a corrupt file is logged and otherwise treated the
// same way. In both cases v is left untouched and ok is false.
func readDocument(path string, v any) (ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("reading %s: %s, starting empty", path, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Warnf("parsing %s: %s, starting empty", path, err)
		return false
	}
	return true
}

// writeDocument replaces the JSON document at path atomically. Unlike reads,
// a failed write is propagated: the caller must not silently drop data.
func writeDocument(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
