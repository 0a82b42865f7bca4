package roster

import (
	"context"
	"sync"

	"petsim/internal/pet"
)

// MemoryPort keeps everything in process. Used by tests and the memory storage mode.
type MemoryPort struct {
	mu     sync.RWMutex
	roster *Roster
	legacy *pet.State
	saves  int
}

func NewMemoryPort() *MemoryPort {
	return &MemoryPort{}
}

// SetLegacy seeds a legacy single-pet record.
func (m *MemoryPort) SetLegacy(p pet.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.legacy = &p
}

// Saves returns how many times Save has been called.
func (m *MemoryPort) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemoryPort) Load(ctx context.Context) (Roster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.roster == nil {
		return Roster{}, ErrNotFound
	}
	return m.roster.Clone(), nil
}

func (m *MemoryPort) LoadLegacy(ctx context.Context) (pet.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.legacy == nil {
		return pet.State{}, ErrNotFound
	}
	return *m.legacy, nil
}

func (m *MemoryPort) Save(ctx context.Context, r Roster) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := r.Clone()
	m.roster = &c
	m.saves++
	return nil
}

func (m *MemoryPort) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roster = nil
	return nil
}
