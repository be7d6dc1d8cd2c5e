package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/letaky-tools/letaky/internal/brochure"
)

// ErrEmptyListing is returned when asked to save a listing without brochures
var ErrEmptyListing = errors.New("no brochures to save")

// Storage reads and writes one listing file
type Storage struct {
	path string
}

// New creates a Storage for the listing at path.
// A leading "~/" is expanded and missing parent directories are created.
func New(path string) (*Storage, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	return &Storage{path: path}, nil
}

// Path returns the listing file location
func (s *Storage) Path() string {
	return s.path
}

// Load reads the listing from disk.
// A missing file is not an error and yields a nil listing.
func (s *Storage) Load() ([]*brochure.Brochure, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading listing: %w", err)
	}

	var brochures []*brochure.Brochure
	if err := json.Unmarshal(data, &brochures); err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	return brochures, nil
}

// Save writes the listing, replacing any previous file atomically.
// An empty listing is not written and ErrEmptyListing is returned.
func (s *Storage) Save(brochures []*brochure.Brochure) error {
	if len(brochures) == 0 {
		return ErrEmptyListing
	}

	data, err := Encode(brochures)
	if err != nil {
		return fmt.Errorf("encoding listing: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".letaky-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("writing listing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting listing permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing listing: %w", err)
	}

	return nil
}

// Encode renders brochures the way they are stored: a JSON array indented
// with four spaces, with non-ASCII text and HTML characters left as is.
func Encode(brochures []*brochure.Brochure) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(brochures); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
