package docproc

import (
	"fmt"
	"os"
)

// writeTempFile writes data to a temp file and returns its path with a
// cleanup function. Callers must invoke cleanup on every exit path.
func writeTempFile(data []byte, ext string) (string, func(), error) {
	f, err := os.CreateTemp("", "docproc-*."+ext)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return path, cleanup, nil
}
