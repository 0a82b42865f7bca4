package roster

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"petsim/internal/machine"
	"petsim/internal/pet"
)

// Store owns the roster and the selection pointer. Every read-modify-write runs
// under one lock and is persisted through the port before the lock is released.
type Store struct {
	mu     sync.Mutex
	port   Port
	now    func() time.Time
	roster Roster
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the roster from port. When none exists it migrates the legacy record,
// or starts a fresh roster with one new pet.
func Open(ctx context.Context, port Port, opts ...Option) (*Store, error) {
	s := &Store{port: port, now: func() time.Time { return pet.TimeNow() }}
	for _, opt := range opts {
		opt(s)
	}
	now := s.now()

	r, err := port.Load(ctx)
	dirty := false
	switch {
	case errors.Is(err, ErrNotFound):
		legacy, lerr := port.LoadLegacy(ctx)
		switch {
		case lerr == nil:
			r = Migrate(legacy, now)
		case errors.Is(lerr, ErrNotFound):
			r = Roster{}
		default:
			return nil, fmt.Errorf("load legacy pet: %w", lerr)
		}
		dirty = true
	case err != nil:
		return nil, fmt.Errorf("load roster: %w", err)
	}

	seen := make(map[string]bool, len(r.Pets))
	pets := make([]pet.State, 0, len(r.Pets))
	for _, p := range r.Pets {
		p = pet.Repair(p, now)
		if seen[p.ID] {
			log.Printf("Dropping duplicate pet id %s", p.ID)
			dirty = true
			continue
		}
		seen[p.ID] = true
		pets = append(pets, p)
	}
	r.Pets = pets

	if len(r.Pets) == 0 {
		p := pet.NewPet("")
		r.Pets = append(r.Pets, p)
		r.SelectedID = p.ID
		dirty = true
	}
	if r.Find(r.SelectedID) < 0 {
		r.SelectedID = r.Pets[0].ID
		dirty = true
	}

	s.roster = r
	if dirty {
		s.saveLocked()
	}
	log.Printf("Opened roster with %d pets, selected %s", len(r.Pets), r.SelectedID)
	return s, nil
}

func (s *Store) saveLocked() {
	if err := s.port.Save(context.Background(), s.roster.Clone()); err != nil {
		log.Printf("Error saving roster: %v", err)
	}
}

// CreatePet adopts a new pet and selects it.
func (s *Store) CreatePet(name string) pet.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := pet.NewPet(strings.TrimSpace(name))
	s.roster.Pets = append(s.roster.Pets, p)
	s.roster.SelectedID = p.ID
	s.saveLocked()
	return p
}

// SelectPet moves the pointer to id. Unknown ids are ignored.
func (s *Store) SelectPet(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.roster.Find(id) < 0 {
		return false
	}
	s.roster.SelectedID = id
	s.saveLocked()
	return true
}

// RenamePet changes only the name of a live pet.
func (s *Store) RenamePet(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	i := s.roster.Find(id)
	if i < 0 || name == "" || s.roster.Pets[i].IsDead {
		return false
	}
	old := s.roster.Pets[i].Name
	s.roster.Pets[i].Name = name
	s.saveLocked()
	log.Printf("Renamed pet %s from %s to %s", id, old, name)
	return true
}

// MutateSelected applies fn to the selected pet and writes the result back.
// This is the only path by which the engine changes a stored record.
func (s *Store) MutateSelected(fn func(pet.State) pet.State) (pet.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.roster.Find(s.roster.SelectedID)
	if i < 0 {
		return pet.State{}, false
	}
	next := fn(s.roster.Pets[i])
	next.ID = s.roster.Pets[i].ID
	s.roster.Pets[i] = next
	s.saveLocked()
	return next.Clone(), true
}

// Current returns the selected pet caught up to now.
func (s *Store) Current() (pet.State, bool) {
	return s.MutateSelected(func(p pet.State) pet.State {
		return machine.CatchUp(p, s.now())
	})
}

// Pets returns a snapshot of every record as stored.
func (s *Store) Pets() []pet.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Clone().Pets
}

func (s *Store) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.SelectedID
}

// Export returns the selected pet, caught up, in its portable envelope.
func (s *Store) Export() (Payload, bool) {
	p, ok := s.Current()
	if !ok {
		return Payload{}, false
	}
	return Payload{Version: ExportVersion, Pet: &p}, true
}

// Import merges an external payload. It overwrites the selected live pet in place,
// keeping its local id. A dead selected pet is kept and the import is adopted as
// a new record instead.
func (s *Store) Import(payload Payload) (pet.State, error) {
	if err := payload.Validate(); err != nil {
		return pet.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	i := s.roster.Find(s.roster.SelectedID)
	if i >= 0 && !s.roster.Pets[i].IsDead {
		p := pet.SanitizeImport(*payload.Pet, s.roster.Pets[i].ID, now)
		s.roster.Pets[i] = p
		s.saveLocked()
		log.Printf("Imported %s over selected pet %s", p.Name, p.ID)
		return p, nil
	}

	p := pet.SanitizeImport(*payload.Pet, pet.NewID(), now)
	s.roster.Pets = append(s.roster.Pets, p)
	s.roster.SelectedID = p.ID
	s.saveLocked()
	log.Printf("Imported %s as new pet %s", p.Name, p.ID)
	return p, nil
}

// Reset clears the stored roster and starts over with one new pet.
func (s *Store) Reset(ctx context.Context) (pet.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.port.Clear(ctx); err != nil {
		return pet.State{}, fmt.Errorf("clear roster: %w", err)
	}
	p := pet.NewPet("")
	s.roster = Roster{Pets: []pet.State{p}, SelectedID: p.ID}
	s.saveLocked()
	return p, nil
}
