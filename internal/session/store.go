// Package session keeps the wizard position between CLI runs.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/grantdesk/internal/wizard"
	"gopkg.in/yaml.v3"
)

// FileStore is a wizard.StateStore backed by a YAML file.
type FileStore struct {
	path string
}

var _ wizard.StateStore = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load returns nil, nil when the file does not exist.
func (s *FileStore) Load() (*wizard.State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	var st wizard.State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return &st, nil
}

// Save replaces the file through a rename so a crash never leaves a
// half-written state behind.
func (s *FileStore) Save(st wizard.State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.yml")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", s.path, err)
	}
	return nil
}
