// Package reward holds the read-only reward summary view.
package reward

import (
	"context"
	"sync"

	"swmra-client/internal/domain/reward"
	"swmra-client/internal/gateway"
)

type Store struct {
	gw *gateway.Client

	mu      sync.Mutex
	summary *reward.Summary
}

func NewStore(gw *gateway.Client) *Store {
	return &Store{gw: gw}
}

// Refresh replaces the cached summary. Independent of request mutations.
func (s *Store) Refresh(ctx context.Context) (*reward.Summary, error) {
	summary, err := s.gw.RewardSummary(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()
	return summary, nil
}

func (s *Store) Summary() *reward.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summary == nil {
		return nil
	}
	snap := *s.summary
	snap.Recent = make([]reward.Reward, len(s.summary.Recent))
	copy(snap.Recent, s.summary.Recent)
	return &snap
}
