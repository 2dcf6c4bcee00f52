package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
)

// Memory keeps transactions in process. Only for tests and local runs.
type Memory struct {
	mu    sync.RWMutex
	byKey map[string]*models.Transaction
	order []string // checkout ids in insertion order
}

func NewMemory() *Memory {
	return &Memory{byKey: make(map[string]*models.Transaction)}
}

func (m *Memory) Create(_ context.Context, t *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byKey[t.CheckoutRequestID]; ok {
		return ErrDuplicate
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cp := *t
	m.byKey[t.CheckoutRequestID] = &cp
	m.order = append(m.order, t.CheckoutRequestID)
	return nil
}

func (m *Memory) ApplyCallback(_ context.Context, r models.CallbackResult) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byKey[r.CheckoutRequestID]
	if !ok {
		return false, nil
	}
	t.Apply(r)
	return true, nil
}

func (m *Memory) GetByCheckoutID(_ context.Context, checkoutRequestID string) (*models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.byKey[checkoutRequestID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *Memory) List(_ context.Context) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Transaction, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, *m.byKey[key])
	}
	// stable, so equal created_at keeps insertion order
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) Ping(context.Context) error { return nil }
