package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Traveler1145141/TRWhitelist/pkg/email"
)

// fileDocument is the on-disk shape: every normalized address under a fixed
// "registered" namespace with a boolean marker. The file is rewritten in full
// on every mutation, not appended to.
type fileDocument struct {
	Registered map[string]bool `yaml:"registered"`
}

// FileStore is the YAML-file-backed allow-list store. The in-memory set is
// authoritative; a failed persist is logged and does not roll back the
// insert. Dedup semantics survive the rest of the process lifetime either way.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	entries map[string]struct{}
	logger  *slog.Logger
}

// NewFile constructs a store persisting to the YAML file at path.
func NewFile(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:    path,
		entries: make(map[string]struct{}),
		logger:  logger,
	}
}

// Load replaces the in-memory set with the file contents. A missing file is
// an empty set, not an error.
func (s *FileStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]struct{}, len(doc.Registered))
	for addr, registered := range doc.Registered {
		if registered {
			s.entries[email.Normalize(addr)] = struct{}{}
		}
	}
	s.logger.InfoContext(ctx, "loaded registered emails", "count", len(s.entries), "path", s.path)
	return nil
}

func (s *FileStore) Contains(_ context.Context, addr string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[email.Normalize(addr)]
	return ok, nil
}

// Insert adds the normalized address and rewrites the file. Inserting a
// present address is a no-op that skips the rewrite.
func (s *FileStore) Insert(ctx context.Context, addr string) error {
	normalized := email.Normalize(addr)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[normalized]; ok {
		return nil
	}
	s.entries[normalized] = struct{}{}
	s.persistLocked(ctx)
	return nil
}

// Clear empties the set and rewrites the file.
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]struct{})
	s.persistLocked(ctx)
	return nil
}

// Persist rewrites the file from the current in-memory set.
func (s *FileStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.write(ctx)
}

// persistLocked writes under the already-held write lock. I/O failure is
// logged at error severity and swallowed.
func (s *FileStore) persistLocked(ctx context.Context) {
	if err := s.write(ctx); err != nil {
		s.logger.ErrorContext(ctx, "could not persist registered emails",
			"path", s.path,
			"error", err,
		)
	}
}

func (s *FileStore) write(ctx context.Context) error {
	doc := fileDocument{Registered: make(map[string]bool, len(s.entries))}
	for addr := range s.entries {
		doc.Registered[addr] = true
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	s.logger.DebugContext(ctx, "saved registered emails", "count", len(s.entries), "path", s.path)
	return nil
}

// Size returns the number of registered addresses.
func (s *FileStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
