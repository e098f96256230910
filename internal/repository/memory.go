package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/m2tx/contentkit/internal/model"
)

// MemorySessionRepository keeps session history in process memory. It is
// used when no MongoDB URI is configured and in tests.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string][]model.Content
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string][]model.Content),
	}
}

func (r *MemorySessionRepository) Save(ctx context.Context, sessionID string, history []model.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = slices.Clone(history)
	return nil
}

func (r *MemorySessionRepository) Load(ctx context.Context, sessionID string) ([]model.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	history, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return slices.Clone(history), nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
