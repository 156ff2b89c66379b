package domain

import "path/filepath"

// LocalFile is a file chosen on this machine that has not been uploaded yet.
type LocalFile struct {
	Path string `yaml:"path"`
}

// Name returns the base name used as the upload filename.
func (f LocalFile) Name() string {
	return filepath.Base(f.Path)
}

// FilePreview references a file the server already holds.
type FilePreview struct {
	URL string `yaml:"url"`
}

// FileSlot pairs a pending local file with a previously uploaded one.
// Either half is enough to satisfy a required attachment.
type FileSlot struct {
	Local   *LocalFile   `yaml:"local,omitempty"`
	Preview *FilePreview `yaml:"preview,omitempty"`
}

func (s FileSlot) Satisfied() bool {
	return s.Local != nil || s.Preview != nil
}

// Pending reports whether the slot has a local file waiting for upload.
func (s FileSlot) Pending() bool {
	return s.Local != nil && s.Local.Path != ""
}

// Attach sets a local file, keeping any existing preview until the upload
// replaces it.
func (s *FileSlot) Attach(path string) {
	if path == "" {
		s.Local = nil
		return
	}
	s.Local = &LocalFile{Path: path}
}

// Describe returns a short label for listings.
func (s FileSlot) Describe() string {
	switch {
	case s.Pending():
		return s.Local.Name() + " (pending)"
	case s.Preview != nil:
		return s.Preview.URL
	default:
		return ""
	}
}
