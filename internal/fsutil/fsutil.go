// Package fsutil holds file helpers shared by the writers.
package fsutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile renders into a temporary file next to path and renames it into
// place, so readers never observe a partial file.
func WriteFile(path string, render func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			if rmErr := os.Remove(tmpName); rmErr != nil {
				_ = rmErr
			}
		}
	}()

	writer := bufio.NewWriter(tmp)
	if err := render(writer); err != nil {
		if cerr := tmp.Close(); cerr != nil {
			_ = cerr
		}
		return err
	}
	if err := writer.Flush(); err != nil {
		if cerr := tmp.Close(); cerr != nil {
			_ = cerr
		}
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		if cerr := tmp.Close(); cerr != nil {
			_ = cerr
		}
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
