package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Parse reads every entry from r.
func Parse(r io.Reader) (*Manifest, error) {
	s := NewScanner(r)
	m := &Manifest{}

	for {
		entry, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, entry)
	}

	m.Issues = s.Issues()
	return m, nil
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Open opens the manifest at path for reading. A missing manifest is
// reported with ErrNotFound in the chain.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening manifest %s: %w", path, err)
	}
	return f, nil
}

// ErrNotFound is returned by Open when the manifest file does not exist.
var ErrNotFound = errors.New("manifest not found")
