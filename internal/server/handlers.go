package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"petsim/internal/journal"
	"petsim/internal/machine"
	"petsim/internal/pet"
	"petsim/internal/roster"
)

type adoptRequest struct {
	Name string `json:"name"`
}

type renameRequest struct {
	Name *string `json:"name"`
}

type journalResponse struct {
	Entries []journal.Entry `json:"entries"`
	Summary journal.Summary `json:"summary"`
}

func (s *Server) listPets(w http.ResponseWriter, r *http.Request) {
	selected := s.store.SelectedID()
	pets := s.store.Pets()
	out := make([]Summary, 0, len(pets))
	for _, p := range pets {
		out = append(out, Summary{
			ID:       p.ID,
			Name:     p.Name,
			Stage:    p.Stage,
			IsDead:   p.IsDead,
			Selected: p.ID == selected,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adoptPet(w http.ResponseWriter, r *http.Request) {
	var req adoptRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
	}
	p := s.store.CreatePet(req.Name)
	s.logger.Printf("Adopted %s (%s) over http", p.Name, p.ID)
	v := NewView(p, s.now())
	s.hub.Broadcast(v)
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) renamePet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "petID")

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if !s.exists(id) {
		http.Error(w, "pet not found", http.StatusNotFound)
		return
	}
	if !s.store.RenamePet(id, *req.Name) {
		http.Error(w, "pet cannot be renamed", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) selectPet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "petID")
	if !s.store.SelectPet(id) {
		http.Error(w, "pet not found", http.StatusNotFound)
		return
	}
	s.currentPet(w, r)
}

func (s *Server) currentPet(w http.ResponseWriter, r *http.Request) {
	p, ok := s.store.Current()
	if !ok {
		http.Error(w, "no pet selected", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, NewView(p, s.now()))
}

// performAction is fire-and-forget: a rejected action still answers 200 with
// the unchanged view.
func (s *Server) performAction(w http.ResponseWriter, r *http.Request) {
	a := pet.Action(chi.URLParam(r, "action"))
	if !a.Valid() {
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}
	p, _ := s.ctrl.Act(a)
	v := NewView(p, s.now())
	s.hub.Broadcast(v)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) exportPet(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.store.Export()
	if !ok {
		http.Error(w, "no pet selected", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="pet.json"`)
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) importPet(w http.ResponseWriter, r *http.Request) {
	var payload roster.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	p, err := s.store.Import(payload)
	switch {
	case errors.Is(err, roster.ErrEmptyPayload), errors.Is(err, roster.ErrUnsupportedVersion):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	v := NewView(p, s.now())
	s.hub.Broadcast(v)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) exportSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, roster.ExportSchema())
}

func (s *Server) listJournal(w http.ResponseWriter, r *http.Request) {
	q := journal.Query{PetID: r.URL.Query().Get("pet")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		q.Limit = n
	}
	if raw := r.URL.Query().Get("kind"); raw != "" {
		q.Kinds = []machine.EffectKind{machine.EffectKind(raw)}
	}
	entries := s.journal.Entries(q)
	writeJSON(w, http.StatusOK, journalResponse{Entries: entries, Summary: journal.Summarize(entries)})
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	p, ok := s.store.Current()
	if !ok {
		http.Error(w, "no pet selected", http.StatusNotFound)
		return
	}
	s.hub.Handle(w, r, NewView(p, s.now()))
}

func (s *Server) exists(id string) bool {
	for _, p := range s.store.Pets() {
		if p.ID == id {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
