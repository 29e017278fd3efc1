package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
)

// withTempFile creates a file in dir (optionally filled with data), passes its
// path to fn and removes it on every exit path, panics included.
func withTempFile(dir, pattern string, data []byte, fn func(path string) error) error {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()

	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[pipeline] remove temp %s: %v", path, err)
		}
	}()

	if len(data) > 0 {
		if _, err := f.Write(data); err != nil {
			f.Close()
			return fmt.Errorf("write temp file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return fn(path)
}
