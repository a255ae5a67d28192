package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk document wrapping a snapshot.
type fileFormat struct {
	Version    int          `yaml:"version"`
	ActionMaps []*ActionMap `yaml:"action_maps"`
}

// currentFileVersion is the supported profile file version.
const currentFileVersion = 1

// FileStore is a Store persisted to a yaml file. It is the binder's own
// working copy of the bindings; exporting to the game's profile format is a
// separate concern and not handled here.
type FileStore struct {
	*MemoryStore
	path string
}

// OpenFileStore loads a profile store from path. A missing file yields an
// empty store; the file is created on first save.
func OpenFileStore(path string) (*FileStore, error) {
	var doc fileFormat

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		doc.Version = currentFileVersion
	case err != nil:
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse profile file: %w", err)
		}
		if doc.Version != currentFileVersion {
			return nil, fmt.Errorf("unsupported profile version: %d (expected %d)",
				doc.Version, currentFileVersion)
		}
	}

	fs := &FileStore{
		MemoryStore: NewMemoryStore(doc.ActionMaps),
		path:        path,
	}
	fs.onReplace = fs.save
	return fs, nil
}

// save writes a snapshot to disk atomically (temp file + rename), matching
// how the config registry persists. Called with the store's write lock held.
func (fs *FileStore) save(maps []*ActionMap) error {
	doc := fileFormat{Version: currentFileVersion, ActionMaps: maps}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	tmpPath := fs.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary profile file: %w", err)
	}
	if err := os.Rename(tmpPath, fs.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save profile file: %w", err)
	}
	return nil
}

// Path returns the backing file path.
func (fs *FileStore) Path() string {
	return fs.path
}
