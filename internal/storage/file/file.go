package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"petsim/internal/pet"
	"petsim/internal/roster"
)

// File names inside the data directory
const (
	RosterFile   = "pets.json"
	SelectedFile = "selected_pet.json"
	LegacyFile   = "pet.json"
)

// Port stores each key as a JSON file in one directory.
type Port struct {
	mu  sync.Mutex
	dir string
}

// New creates dir if needed and returns a port rooted there.
func New(dir string) (*Port, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Port{dir: dir}, nil
}

// Dir returns the data directory.
func (p *Port) Dir() string { return p.dir }

func (p *Port) path(name string) string {
	return filepath.Join(p.dir, name)
}

func (p *Port) Load(ctx context.Context) (roster.Roster, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var r roster.Roster
	if err := readJSON(p.path(RosterFile), &r.Pets); err != nil {
		return roster.Roster{}, err
	}
	if err := readJSON(p.path(SelectedFile), &r.SelectedID); err != nil && !errors.Is(err, roster.ErrNotFound) {
		return roster.Roster{}, err
	}
	return r, nil
}

func (p *Port) LoadLegacy(ctx context.Context) (pet.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var s pet.State
	if err := readJSON(p.path(LegacyFile), &s); err != nil {
		return pet.State{}, err
	}
	return s, nil
}

func (p *Port) Save(ctx context.Context, r roster.Roster) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pets := r.Pets
	if pets == nil {
		pets = []pet.State{}
	}
	if err := writeJSON(p.path(RosterFile), pets); err != nil {
		return err
	}
	return writeJSON(p.path(SelectedFile), r.SelectedID)
}

func (p *Port) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, name := range []string{RosterFile, SelectedFile} {
		if err := os.Remove(p.path(name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return roster.ErrNotFound
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// writeJSON replaces path atomically so a crash never leaves half a file behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
