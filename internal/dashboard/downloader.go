package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirDownloader saves exports into a directory.
type DirDownloader struct {
	Dir string
}

func (d DirDownloader) Download(_ context.Context, filename string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o750); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	path := filepath.Join(d.Dir, filepath.Base(filename))

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	return nil
}
