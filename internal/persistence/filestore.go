package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/config"
	"github.com/hrtriage/ticket-service/internal/domain"
)

// ErrNotFound is returned when a ticket id is absent from the store.
var ErrNotFound = errors.New("ticket not found")

// FileStore keeps all tickets in memory and mirrors them to a single JSON
// file. Every mutation rewrites the file atomically (temp file + rename), and
// memory is only updated after the flush succeeds, so readers never observe a
// state the file does not also hold.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	order   []string
}

// NewFileStore opens the store at cfg.Path, loading any existing tickets.
// A missing file starts an empty store; an unreadable one is a startup error.
func NewFileStore(cfg config.StoreConfig, logger *zap.Logger) (*FileStore, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", dir, err)
		}
	}

	s := &FileStore{
		path:    cfg.Path,
		logger:  logger,
		tickets: make(map[string]*domain.Ticket),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read ticket store %s: %w", s.path, err)
	}

	var tickets []*domain.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return fmt.Errorf("parse ticket store %s: %w", s.path, err)
	}

	for _, t := range tickets {
		if _, dup := s.tickets[t.ID]; dup {
			return fmt.Errorf("ticket store %s: duplicate id %s", s.path, t.ID)
		}
		s.tickets[t.ID] = t
		s.order = append(s.order, t.ID)
	}
	s.logger.Info("ticket store loaded", zap.String("path", s.path), zap.Int("tickets", len(tickets)))
	return nil
}

// Insert persists a new ticket. The caller keeps ownership of t.
func (s *FileStore) Insert(t *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tickets[t.ID]; exists {
		return fmt.Errorf("ticket %s already exists", t.ID)
	}

	s.tickets[t.ID] = t.Clone()
	s.order = append(s.order, t.ID)
	if err := s.flushLocked(); err != nil {
		delete(s.tickets, t.ID)
		s.order = s.order[:len(s.order)-1]
		return err
	}
	return nil
}

// Get returns a copy of the ticket with the given id.
func (s *FileStore) Get(id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t.Clone(), nil
}

// List returns copies of all tickets in creation order.
func (s *FileStore) List() []*domain.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Ticket, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tickets[id].Clone())
	}
	return out
}

// Update applies mutate to a copy of the stored ticket and commits the result.
// The stored record is untouched if mutate or the flush fails. UpdatedAt is
// stamped on every successful commit.
func (s *FileStore) Update(id string, mutate func(*domain.Ticket) error) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()

	s.tickets[id] = next
	if err := s.flushLocked(); err != nil {
		s.tickets[id] = current
		return nil, err
	}
	return next.Clone(), nil
}

// Len reports the number of stored tickets.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}

// Close flushes the store a final time.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// flushLocked rewrites the backing file. Callers must hold the write lock.
// The temp file is written, synced and closed before the rename so a crash at
// any point leaves either the old file or the new one, never a partial write.
func (s *FileStore) flushLocked() error {
	tickets := make([]*domain.Ticket, 0, len(s.order))
	for _, id := range s.order {
		tickets = append(tickets, s.tickets[id])
	}

	data, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ticket store: %w", err)
	}

	tmpPath := s.path + ".tmp"
	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp store file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename store file into place: %w", err)
	}

	if dir, err := os.Open(filepath.Dir(s.path)); err == nil {
		dir.Sync()
		dir.Close()
	}
	return nil
}
