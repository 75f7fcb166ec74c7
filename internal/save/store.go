package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/peterkuimelis/cardcrawl/internal/save Store
//go:generate mockgen -destination=mocks/mock_clock.go -package=mocks github.com/peterkuimelis/cardcrawl/internal/save Clock

// Store persists a single progress record.
type Store interface {
	Save(ctx context.Context, p *Progress) error
	// Load returns ErrNotFound when nothing has been saved yet.
	Load(ctx context.Context) (*Progress, error)
	Delete(ctx context.Context) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Manager stamps and validates progress on its way to and from a Store.
type Manager struct {
	store Store
	clock Clock
	newID func() string
}

func NewManager(store Store, clock Clock) *Manager {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Manager{store: store, clock: clock, newID: uuid.NewString}
}

// Save assigns a player id on first save and records the save time.
func (m *Manager) Save(ctx context.Context, p *Progress) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.PlayerID == "" {
		p.PlayerID = m.newID()
	}
	p.LastSaved = m.clock.Now()
	if err := m.store.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Load returns validated progress.
func (m *Manager) Load(ctx context.Context) (*Progress, error) {
	p, err := m.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p.normalize()
	return p, nil
}

func (m *Manager) Delete(ctx context.Context) error {
	return m.store.Delete(ctx)
}

// LoadOrNew loads the saved profile or creates and saves a fresh one.
// Invalid saves are replaced.
func (m *Manager) LoadOrNew(ctx context.Context) (*Progress, error) {
	p, err := m.Load(ctx)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidSave):
		p = NewProgress()
		if err := m.Save(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, err
	}
}

// Exists reports whether a valid save is present.
func (m *Manager) Exists(ctx context.Context) (bool, error) {
	_, err := m.Load(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidSave):
		return false, nil
	default:
		return false, err
	}
}

// Reset wipes the save and starts over with a fresh profile.
func (m *Manager) Reset(ctx context.Context) (*Progress, error) {
	if err := m.store.Delete(ctx); err != nil {
		return nil, fmt.Errorf("failed to delete progress: %w", err)
	}
	p := NewProgress()
	if err := m.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// MemoryStore keeps a serialized copy in memory. Used by tests and the MCP server.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, p *Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize progress: %w", err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context) (*Progress, error) {
	s.mu.Lock()
	data := s.data
	s.mu.Unlock()
	if data == nil {
		return nil, ErrNotFound
	}
	return decode(data)
}

func (s *MemoryStore) Delete(_ context.Context) error {
	s.mu.Lock()
	s.data = nil
	s.mu.Unlock()
	return nil
}

func decode(data []byte) (*Progress, error) {
	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	return &p, nil
}
