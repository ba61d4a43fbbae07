// Package history keeps the bounded list of recent successful lookups and
// persists it through a key-value Backend.
package history

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/observability"
)

// MaxEntries is the history bound.
const MaxEntries = 5

// DefaultKey is the key the history array is persisted under.
const DefaultKey = "weatherSearchHistory"

// Store is the most-recent-first list of unique city names. Safe for concurrent use.
// Invariants: at most MaxEntries entries, no case-insensitive duplicates, newest at index 0.
type Store struct {
	backend Backend
	key     string
	logger  *zap.Logger

	// writeMu orders Record calls end to end so the backend and subscribers
	// see the lists in the same order as memory.
	writeMu sync.Mutex

	mu          sync.RWMutex
	entries     []string
	subscribers []func([]string)
}

// NewStore creates an empty store persisting under key. Call Load before use.
func NewStore(backend Backend, key string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, key: key, logger: logger}
}

// Load reads the persisted history. Absent, unreadable or malformed data leaves the
// store empty; only the first MaxEntries well-formed entries are kept.
func (s *Store) Load(ctx context.Context) {
	entries := s.read(ctx)

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	observability.HistoryEntries.Set(float64(len(entries)))
}

func (s *Store) read(ctx context.Context) []string {
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("history load failed, starting empty", zap.String("backend", s.backend.Name()), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var stored []string
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("history malformed, starting empty", zap.String("backend", s.backend.Name()), zap.Error(err))
		return nil
	}
	entries := make([]string, 0, MaxEntries)
	for _, city := range stored {
		city = strings.TrimSpace(city)
		if city == "" || contains(entries, city) {
			continue
		}
		entries = append(entries, city)
		if len(entries) == MaxEntries {
			break
		}
	}
	return entries
}

// Record moves city to the front, persists the list and notifies subscribers.
// Blank names are ignored. A persistence failure is returned after the in-memory
// list has been updated.
func (s *Store) Record(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.entries = insert(s.entries, city)
	snapshot := append([]string(nil), s.entries...)
	subs := make([]func([]string), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	observability.HistoryEntries.Set(float64(len(snapshot)))
	err := s.persist(ctx, snapshot)
	for _, fn := range subs {
		fn(append([]string(nil), snapshot...))
	}
	return err
}

func (s *Store) persist(ctx context.Context, entries []string) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		observability.HistoryWritesTotal.WithLabelValues(s.backend.Name(), "error").Inc()
		s.logger.Warn("history persist failed", zap.String("backend", s.backend.Name()), zap.Error(err))
		return err
	}
	observability.HistoryWritesTotal.WithLabelValues(s.backend.Name(), "success").Inc()
	return nil
}

// Entries returns a copy of the history, newest first.
func (s *Store) Entries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.entries...)
}

// Subscribe registers fn to be called with the new list after every Record.
func (s *Store) Subscribe(fn func(entries []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func contains(entries []string, city string) bool {
	for _, e := range entries {
		if strings.EqualFold(e, city) {
			return true
		}
	}
	return false
}

// insert drops case-insensitive matches of city, prepends it and truncates.
func insert(entries []string, city string) []string {
	city = strings.TrimSpace(city)
	if city == "" {
		return entries
	}
	out := make([]string, 0, MaxEntries)
	out = append(out, city)
	for _, e := range entries {
		if strings.EqualFold(e, city) {
			continue
		}
		out = append(out, e)
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}
