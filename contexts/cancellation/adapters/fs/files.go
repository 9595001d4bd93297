package fs

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore writes artifact payloads below a root directory. Each file lives
// in its own randomly named subdirectory so the file name itself can stay
// human readable without collisions.
type FileStore struct {
	Root string
}

// Write stores data under a fresh random subdirectory and returns the path
// relative to the root.
func (f FileStore) Write(filename string, data []byte) (string, error) {
	var raw [4]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generate artifact directory: %w", err)
	}
	dir := hex.EncodeToString(raw[:])
	if err := os.MkdirAll(filepath.Join(f.Root, dir), 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}
	rel := filepath.Join(dir, filename)
	if err := os.WriteFile(filepath.Join(f.Root, rel), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact file: %w", err)
	}
	return rel, nil
}

func (f FileStore) Read(relPath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.Root, relPath))
	if err != nil {
		return nil, fmt.Errorf("read artifact file: %w", err)
	}
	return data, nil
}

// Remove deletes the file and its containing directory when empty.
func (f FileStore) Remove(relPath string) error {
	full := filepath.Join(f.Root, relPath)
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact file: %w", err)
	}
	// Best effort cleanup of the now empty directory.
	_ = os.Remove(filepath.Dir(full))
	return nil
}
