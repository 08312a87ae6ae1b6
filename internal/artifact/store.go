// Package artifact stores generated QR images on disk and serves them over
// HTTP, with a periodic sweep that removes entries past their useful age.
package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store is a disk-backed artifact store. The store directory is created on
// construction and assumed multi-writer-safe; there is no application-level
// locking.
type Store struct {
	dir     string
	baseURL string
	maxAge  time.Duration
	logger  *slog.Logger
}

// NewStore creates the store directory if needed. baseURL is the public
// prefix under which Handler serves the directory.
func NewStore(dir, baseURL string, maxAge time.Duration, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact dir: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxAge:  maxAge,
		logger:  logger,
	}, nil
}

// Put writes an artifact and returns its public URL.
func (s *Store) Put(_ context.Context, name string, data []byte) (string, error) {
	// Uploaded names are generated internally, but keep path traversal out
	// anyway.
	name = filepath.Base(name)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

// Handler serves stored artifacts. Directory requests are rejected: a
// listing would enumerate QR filenames, which embed subscriber IDs.
func (s *Store) Handler() http.Handler {
	files := http.FileServer(http.Dir(s.dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Sweep deletes artifacts older than the age threshold. Errors on single
// entries are logged and the sweep continues.
func (s *Store) Sweep(_ context.Context) error {
	cutoff := time.Now().Add(-s.maxAge)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read artifact dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.logger.Error("failed to stat artifact", "name", entry.Name(), "error", err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.logger.Error("failed to delete old artifact", "name", entry.Name(), "error", err)
			continue
		}
		s.logger.Debug("deleted old artifact", "name", entry.Name())
		removed++
	}

	s.logger.Info("artifact cleanup completed", "removed", removed)
	return nil
}

// RunSweeper sweeps on a fixed interval until ctx is cancelled. Sweep
// failures are logged, never propagated; cleanup shares no state with
// request handling beyond the store itself.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("artifact cleanup failed", "error", err)
			}
		}
	}
}
