package roster

import (
	"context"
	"errors"
	"log"
	"time"

	"petsim/internal/pet"
)

var (
	// ErrNotFound is returned by a Port when the requested key has never been written.
	ErrNotFound           = errors.New("not found")
	ErrEmptyPayload       = errors.New("import payload has no pet")
	ErrUnsupportedVersion = errors.New("unsupported export version")
)

// Roster is the persisted collection plus the selection pointer.
type Roster struct {
	Pets       []pet.State `json:"pets"`
	SelectedID string      `json:"selected_id"`
}

// Find returns the index of the pet with id, or -1.
func (r Roster) Find(id string) int {
	for i, p := range r.Pets {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Clone deep-copies every pet so the result shares nothing mutable with r.
func (r Roster) Clone() Roster {
	out := Roster{SelectedID: r.SelectedID}
	if r.Pets != nil {
		out.Pets = make([]pet.State, len(r.Pets))
		for i, p := range r.Pets {
			out.Pets[i] = p.Clone()
		}
	}
	return out
}

// Port is the persistence boundary of the store.
type Port interface {
	Load(ctx context.Context) (Roster, error)
	LoadLegacy(ctx context.Context) (pet.State, error)
	Save(ctx context.Context, r Roster) error
	// Clear removes the roster and selection. The legacy record is left alone.
	Clear(ctx context.Context) error
}

// Migrate wraps a legacy single-pet record into a one-element roster.
func Migrate(legacy pet.State, now time.Time) Roster {
	p := pet.Repair(legacy, now)
	log.Printf("Migrated legacy pet %s (%s) into a roster", p.Name, p.ID)
	return Roster{Pets: []pet.State{p}, SelectedID: p.ID}
}
