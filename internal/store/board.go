package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"glyphboard/internal/scene"
)

const boardVersion = 1

// ErrUnsupportedVersion indicates a file written by a newer glyphboard.
var ErrUnsupportedVersion = errors.New("unsupported file version")

// boardFile is the JSON-serializable form of a saved board.
type boardFile struct {
	Version int            `json:"version"`
	SavedAt time.Time      `json:"saved_at"`
	Board   scene.Document `json:"board"`
}

// SaveBoard writes the scene to path. The file is written atomically
// using a temporary file and rename.
func SaveBoard(s *scene.Scene, path string) error {
	file := boardFile{
		Version: boardVersion,
		SavedAt: time.Now(),
		Board:   s.Document(),
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding board: %w", err)
	}

	return writeAtomic(path, data)
}

// LoadBoard reads a board from path. A missing file is not an error:
// LoadBoard returns (nil, nil) and the caller starts with an empty
// scene.
func LoadBoard(path string) (*scene.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading board file: %w", err)
	}

	var file boardFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding board file %s: %w", path, err)
	}
	if file.Version > boardVersion {
		return nil, fmt.Errorf("%w: %d (max supported: %d)", ErrUnsupportedVersion, file.Version, boardVersion)
	}

	return scene.FromDocument(file.Board), nil
}

// DefaultBoardPath returns the per-user board location, normally
// ~/.config/glyphboard/board.json.
func DefaultBoardPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(configDir, "glyphboard", "board.json"), nil
}

// writeAtomic writes data to path via a temp file and rename, creating
// parent directories as needed.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
