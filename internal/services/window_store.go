package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryWindowStore is the single-node ExecutionWindowStore: a bounded
// per-rule deque of execution times. The redis-backed store in
// internal/clients/redis is the multi-node equivalent.
type memoryWindowStore struct {
	mu         sync.Mutex
	executions map[uuid.UUID][]time.Time
	maxPerRule int
}

func NewMemoryWindowStore() ExecutionWindowStore {
	return &memoryWindowStore{
		executions: map[uuid.UUID][]time.Time{},
		maxPerRule: 2048,
	}
}

func (s *memoryWindowStore) Record(ctx context.Context, ruleID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	times := append(s.executions[ruleID], at)
	if len(times) > s.maxPerRule {
		times = times[len(times)-s.maxPerRule:]
	}
	s.executions[ruleID] = times
	return nil
}

func (s *memoryWindowStore) CountSince(ctx context.Context, ruleID uuid.UUID, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, at := range s.executions[ruleID] {
		if !at.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *memoryWindowStore) PruneBefore(ctx context.Context, ruleID uuid.UUID, before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	times := s.executions[ruleID]
	kept := times[:0]
	for _, at := range times {
		if !at.Before(before) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(s.executions, ruleID)
		return nil
	}
	s.executions[ruleID] = kept
	return nil
}
