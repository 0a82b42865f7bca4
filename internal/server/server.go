package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"petsim/internal/journal"
	"petsim/internal/machine"
	"petsim/internal/pet"
	"petsim/internal/roster"
)

type Options struct {
	Store   *roster.Store
	Journal *journal.Journal // nil disables /journal history
	Clock   func() time.Time
	Logger  *log.Logger
}

// Server exposes one roster over HTTP and streams the selected pet to observers.
type Server struct {
	store   *roster.Store
	ctrl    *machine.Controller
	journal *journal.Journal
	hub     *Hub
	now     func() time.Time
	logger  *log.Logger
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Clock
	if now == nil {
		now = func() time.Time { return pet.TimeNow() }
	}
	j := opts.Journal
	if j == nil {
		j = journal.New(0)
	}
	return &Server{
		store:   opts.Store,
		ctrl:    machine.NewController(opts.Store, machine.WithClock(now), machine.WithObserver(j)),
		journal: j,
		hub:     NewHub(logger),
		now:     now,
		logger:  logger,
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", s.listPets)
		pr.Post("/", s.adoptPet)

		pr.Get("/current", s.currentPet)
		pr.Post("/current/actions/{action}", s.performAction)
		pr.Get("/current/export", s.exportPet)
		pr.Post("/current/import", s.importPet)

		pr.Patch("/{petID}", s.renamePet)
		pr.Post("/{petID}/select", s.selectPet)
	})

	r.Get("/schema/export", s.exportSchema)
	r.Get("/journal", s.listJournal)
	r.Get("/ws", s.stream)

	return r
}

// Tick advances the selected pet and pushes the result to observers.
func (s *Server) Tick() View {
	p := s.ctrl.Tick()
	v := NewView(p, s.now())
	s.hub.Broadcast(v)
	return v
}

// Run ticks every interval until ctx is done.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Hub returns the observer hub.
func (s *Server) Hub() *Hub { return s.hub }
