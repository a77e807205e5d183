package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var audioExtensions = map[string]bool{
	".mp3": true,
	".wav": true,
	".m4a": true,
	".ogg": true,
}

// LocalLibrary serves assets from a directory, matched by file name without
// extension, case-insensitive.
type LocalLibrary struct {
	dir string
}

func NewLocalLibrary(dir string) *LocalLibrary {
	return &LocalLibrary{dir: dir}
}

func (l *LocalLibrary) Lookup(ctx context.Context, name string) (string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return "", fmt.Errorf("read asset directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if strings.EqualFold(base, name) {
			return filepath.Join(l.dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("asset %q not found in %s", name, l.dir)
}

func (l *LocalLibrary) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read asset directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !audioExtensions[ext] {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
	}
	return names, nil
}

func (l *LocalLibrary) EnsureDirectory() error {
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("create asset directory: %w", err)
	}
	return nil
}
