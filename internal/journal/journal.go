package journal

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"petsim/internal/machine"
)

// DefaultCapacity is how many entries a journal keeps before dropping the oldest.
const DefaultCapacity = 500

// Entry is one recorded machine effect.
type Entry struct {
	ID ulid.ULID `json:"id"`
	machine.Effect
}

// Journal is a bounded in-memory log of machine effects.
type Journal struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	entropy  io.Reader
}

func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
}

// Observe records e. It satisfies machine.Observer.
func (j *Journal) Observe(e machine.Effect) {
	j.mu.Lock()
	defer j.mu.Unlock()

	at := e.At
	if at.IsZero() {
		at = time.Now()
	}
	entry := Entry{ID: ulid.MustNew(ulid.Timestamp(at), j.entropy), Effect: e}

	if len(j.entries) == j.capacity {
		copy(j.entries, j.entries[1:])
		j.entries = j.entries[:len(j.entries)-1]
	}
	j.entries = append(j.entries, entry)
}

// Query filters entries. Zero fields match everything.
type Query struct {
	PetID string
	Kinds []machine.EffectKind
	Since time.Time
	Limit int
}

// Entries returns matching entries oldest first. With a Limit only the newest
// Limit matches are returned.
func (j *Journal) Entries(q Query) []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	kinds := make(map[machine.EffectKind]bool, len(q.Kinds))
	for _, k := range q.Kinds {
		kinds[k] = true
	}

	result := make([]Entry, 0)
	for _, e := range j.entries {
		if q.PetID != "" && e.PetID != q.PetID {
			continue
		}
		if len(kinds) > 0 && !kinds[e.Kind] {
			continue
		}
		if e.At.Before(q.Since) {
			continue
		}
		result = append(result, e)
	}
	if q.Limit > 0 && len(result) > q.Limit {
		result = result[len(result)-q.Limit:]
	}
	return result
}

func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}
