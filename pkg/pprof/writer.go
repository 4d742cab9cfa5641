package pprof

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Writer places profile files under one output directory, named
// <label>_<profile>.pprof.
type Writer struct {
	mu        sync.Mutex
	outputDir string
}

// NewWriter creates a new Writer.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// EnsureDir creates the output directory.
func (w *Writer) EnsureDir() error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// Path returns the file path for a label and profile type.
func (w *Writer) Path(label string, pt ProfileType) string {
	label = strings.NewReplacer("/", "_", " ", "_").Replace(label)
	return filepath.Join(w.outputDir, fmt.Sprintf("%s_%s.pprof", label, pt))
}

// Create opens the profile file for a label, truncating an existing one.
func (w *Writer) Create(label string, pt ProfileType) (*os.File, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.Path(label, pt), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile file: %w", err)
	}
	return f, nil
}

// Write writes profile data for a label and returns the file path.
func (w *Writer) Write(label string, pt ProfileType, data []byte) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.Path(label, pt)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write profile file: %w", err)
	}
	return path, nil
}

// ListFiles returns all profile files in the output directory, sorted.
func (w *Writer) ListFiles() ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := os.ReadDir(w.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".pprof" {
			files = append(files, filepath.Join(w.outputDir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
