// Package chartfs implements file-based storage for exported charts.
// Each chart is stored as an image plus a JSON manifest describing it.
package chartfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/pricebars/internal/common"
)

// ErrNotFound is returned when a manifest does not exist.
var ErrNotFound = errors.New("chart not found")

// Manifest describes an exported chart image.
type Manifest struct {
	Name       string    `json:"name"`
	Kind       string    `json:"kind"` // "bars" or "scatter"
	Format     string    `json:"format"`
	File       string    `json:"file"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Dataset    string    `json:"dataset"`
	Stride     int       `json:"stride,omitempty"`
	Bars       int       `json:"bars"`
	RenderedAt time.Time `json:"rendered_at"`
}

// Store writes chart images and manifests under a base directory.
type Store struct {
	basePath    string
	imagesDir   string
	manifestDir string
	logger      *common.Logger
}

// NewChartStore creates the store directories under path.
func NewChartStore(logger *common.Logger, path string) (*Store, error) {
	imagesDir := filepath.Join(path, "images")
	manifestDir := filepath.Join(path, "manifests")
	for _, dir := range []string{path, imagesDir, manifestDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create chart store path %s: %w", dir, err)
		}
	}

	logger.Debug().Str("path", path).Msg("Chart store opened")
	return &Store{
		basePath:    path,
		imagesDir:   imagesDir,
		manifestDir: manifestDir,
		logger:      logger,
	}, nil
}

// DataPath returns the base data path.
func (s *Store) DataPath() string {
	return s.basePath
}

// Save writes the image atomically, then its manifest. It returns the image path.
func (s *Store) Save(m Manifest, image []byte) (string, error) {
	if m.Name == "" {
		return "", fmt.Errorf("chart name is required")
	}
	m.Name = sanitizeKey(m.Name)
	m.File = m.Name + "." + m.Format
	if m.RenderedAt.IsZero() {
		m.RenderedAt = time.Now().UTC()
	}

	target := filepath.Join(s.imagesDir, m.File)
	if err := writeAtomic(s.imagesDir, target, image); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := writeAtomic(s.manifestDir, manifestPath(s.manifestDir, m.Name), data); err != nil {
		return "", err
	}

	s.logger.Info().Str("chart", m.Name).Str("file", target).Int("bytes", len(image)).Msg("Chart saved")
	return target, nil
}

// Manifest reads the manifest for name.
func (s *Store) Manifest(name string) (*Manifest, error) {
	path := manifestPath(s.manifestDir, sanitizeKey(name))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Image reads the stored image bytes for name.
func (s *Store) Image(name string) ([]byte, error) {
	m, err := s.Manifest(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.imagesDir, m.File))
}

// List returns the names of all saved charts, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.manifestDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", s.manifestDir, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".tmp-") {
			names = append(names, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Purge removes every stored chart and returns how many were removed.
func (s *Store) Purge() int {
	names, err := s.List()
	if err != nil {
		return 0
	}
	count := 0
	for _, name := range names {
		if m, err := s.Manifest(name); err == nil {
			os.Remove(filepath.Join(s.imagesDir, m.File))
		}
		if os.Remove(manifestPath(s.manifestDir, name)) == nil {
			count++
		}
	}
	return count
}

// Close is a no-op for file-based storage.
func (s *Store) Close() error {
	return nil
}

// --- helpers ---

func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func manifestPath(dir, name string) string {
	return filepath.Join(dir, name+".json")
}

func writeAtomic(dir, target string, data []byte) error {
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
