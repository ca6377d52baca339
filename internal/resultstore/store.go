// Package resultstore persists evaluation reports for later inspection,
// either in memory or in Redis.
package resultstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/relscore/relscore/internal/config"
	"github.com/relscore/relscore/internal/evaluation"
	"github.com/relscore/relscore/internal/pkg/errors"
)

// Record is one stored evaluation run.
type Record struct {
	RunID    string            `json:"run_id"`
	Phase    string            `json:"phase"`
	ScoredAt time.Time         `json:"scored_at"`
	Report   evaluation.Report `json:"report"`
}

// Store persists evaluation records per phase.
type Store interface {
	// Save stores a record.
	Save(ctx context.Context, rec Record) error

	// Recent returns up to n records for a phase, newest first.
	Recent(ctx context.Context, phase string, n int) ([]Record, error)

	// Close releases resources.
	Close() error
}

// New creates a Store from configuration.
func New(cfg config.ResultsConfig) (Store, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(cfg.RedisURL, time.Duration(cfg.RetainHours)*time.Hour)
	case "memory", "":
		return NewMemoryStore(), nil
	default:
		return nil, errors.ValidationError("unknown results backend: " + cfg.Backend)
	}
}

// MemoryStore keeps records in process memory. Used in tests and as a
// fallback when Redis is unreachable.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record // phase -> records in insertion order
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]Record),
	}
}

// Save stores a record.
func (s *MemoryStore) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Phase] = append(s.records[rec.Phase], rec)
	return nil
}

// Recent returns up to n records for a phase, newest first.
func (s *MemoryStore) Recent(ctx context.Context, phase string, n int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.records[phase]
	out := make([]Record, len(all))
	copy(out, all)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScoredAt.After(out[j].ScoredAt)
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
