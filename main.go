package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"petsim/internal/config"
	"petsim/internal/journal"
	"petsim/internal/machine"
	"petsim/internal/pet"
	"petsim/internal/roster"
	"petsim/internal/server"
	"petsim/internal/storage/file"
	"petsim/internal/storage/postgres"
	"petsim/internal/ui"
)

const usage = `Usage: petsim [command] [args]

Commands:
  play                 Open the pet in the terminal (default)
  stats [-plain]       Show the selected pet's stats
  list                 List every pet, * marks the selected one
  adopt [name]         Adopt a new pet and select it
  select <id>          Select a pet by id or unique id prefix
  rename <id> <name>   Rename a living pet
  act <action>         Fire one action (feed, play, sleep, clean, heal, scold)
  export [-o file]     Write the selected pet as a portable payload
  import <file|->      Merge a payload into the selected pet
  schema               Print the JSON schema of export payloads
  reset -yes           Delete every pet and start over
  serve                Run the HTTP API and websocket stream
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "petsim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	cmd := "play"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	case "schema":
		return writeIndented(out, roster.ExportSchema())
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Only the server logs to stderr; everything else would garble the terminal
	if cmd != "serve" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := tea.LogToFile(cfg.LogFile, "petsim")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer func() {
			log.SetOutput(os.Stderr)
			f.Close()
		}()
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	switch cmd {
	case "play":
		return play(store, cfg)
	case "stats":
		return stats(store, args, out)
	case "list":
		return list(store, out)
	case "adopt":
		p := store.CreatePet(strings.Join(args, " "))
		fmt.Fprintf(out, "Adopted %s (%s)\n", p.Name, p.ID)
		return nil
	case "select":
		return selectPet(store, args, out)
	case "rename":
		return rename(store, args, out)
	case "act":
		return act(store, args, out)
	case "export":
		return export(store, args, out)
	case "import":
		return importPet(store, args, in, out)
	case "reset":
		return reset(ctx, store, args, out)
	case "serve":
		return serve(store, cfg)
	}
	return fmt.Errorf("unknown command %q (see petsim help)", cmd)
}

// openStore picks the persistence port named by cfg and opens the roster over it.
func openStore(ctx context.Context, cfg *config.Config) (*roster.Store, func(), error) {
	noop := func() {}
	var port roster.Port
	closeFn := noop

	switch cfg.Storage {
	case config.StorageMemory:
		port = roster.NewMemoryPort()
	case config.StoragePostgres:
		db, err := postgres.Open(cfg.DatabaseDSN)
		if err != nil {
			return nil, noop, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, noop, err
		}
		port = postgres.NewPort(db)
		closeFn = func() { db.Close() }
	default:
		p, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		port = p
	}

	store, err := roster.Open(ctx, port)
	if err != nil {
		closeFn()
		return nil, noop, err
	}
	return store, closeFn, nil
}

func play(store *roster.Store, cfg *config.Config) error {
	m := ui.NewModel(store, machine.NewController(store))
	m.TickInterval = cfg.TickInterval
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("alas, there's been an error: %w", err)
	}
	return nil
}

func stats(store *roster.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(out)
	plain := fs.Bool("plain", false, "print the stats box without taking over the terminal")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, ok := store.Current()
	if !ok {
		return errors.New("no pet selected")
	}
	if *plain {
		fmt.Fprint(out, ui.RenderStats(p))
		return nil
	}
	return ui.DisplayStats(p)
}

func list(store *roster.Store, out io.Writer) error {
	selected := store.SelectedID()
	for _, p := range store.Pets() {
		marker := " "
		if p.ID == selected {
			marker = "*"
		}
		state := string(p.Stage)
		if p.IsDead {
			state = "dead"
		}
		fmt.Fprintf(out, "%s %s  %-16s %s\n", marker, p.ID, p.Name, state)
	}
	return nil
}

func selectPet(store *roster.Store, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: petsim select <id>")
	}
	id, err := resolveID(store.Pets(), args[0])
	if err != nil {
		return err
	}
	store.SelectPet(id)
	fmt.Fprintf(out, "Selected %s\n", id)
	return nil
}

func rename(store *roster.Store, args []string, out io.Writer) error {
	if len(args) < 2 {
		return errors.New("usage: petsim rename <id> <name>")
	}
	id, err := resolveID(store.Pets(), args[0])
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")
	if !store.RenamePet(id, name) {
		return fmt.Errorf("cannot rename %s to %q", id, name)
	}
	fmt.Fprintf(out, "Renamed %s to %s\n", id, strings.TrimSpace(name))
	return nil
}

func act(store *roster.Store, args []string, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: petsim act <action>")
	}
	a := pet.Action(strings.ToLower(args[0]))
	if !a.Valid() {
		return fmt.Errorf("unknown action %q", args[0])
	}

	p, effects := machine.NewController(store).Act(a)
	for _, e := range effects {
		switch e.Kind {
		case machine.EffectRejected:
			fmt.Fprintf(out, "%s ignored: %s\n", a, e.Reason)
		case machine.EffectApplied:
			fmt.Fprintf(out, "%s: %s\n", p.Name, pet.GetStatusWithLabel(p))
		case machine.EffectStageUp:
			fmt.Fprintf(out, "%s grew into a %s!\n", p.Name, e.Stage)
		case machine.EffectDied:
			fmt.Fprintf(out, "%s has died.\n", p.Name)
		}
	}
	return nil
}

func export(store *roster.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("o", "", "write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payload, ok := store.Export()
	if !ok {
		return errors.New("no pet selected")
	}
	if *path == "" {
		return writeIndented(out, payload)
	}

	f, err := os.Create(*path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()
	return writeIndented(f, payload)
}

func importPet(store *roster.Store, args []string, in io.Reader, out io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: petsim import <file|->")
	}
	r := in
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var payload roster.Payload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	p, err := store.Import(payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %s as %s\n", p.Name, p.ID)
	return nil
}

func reset(ctx context.Context, store *roster.Store, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.SetOutput(out)
	yes := fs.Bool("yes", false, "confirm deleting every pet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("reset deletes every pet; pass -yes to confirm")
	}

	p, err := store.Reset(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Started over with %s (%s)\n", p.Name, p.ID)
	return nil
}

func serve(store *roster.Store, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stderr, "petsim ", log.LstdFlags)
	srv := server.New(server.Options{
		Store:   store,
		Journal: journal.New(cfg.Server.JournalSize),
		Logger:  logger,
	})
	go srv.Run(ctx, cfg.TickInterval)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("listening on %s (storage=%s)", httpSrv.Addr, cfg.Storage)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// resolveID accepts a full id or a prefix matching exactly one pet.
func resolveID(pets []pet.State, arg string) (string, error) {
	var matches []string
	for _, p := range pets {
		if p.ID == arg {
			return p.ID, nil
		}
		if arg != "" && strings.HasPrefix(p.ID, arg) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no pet with id %q", arg)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id prefix %q matches %d pets", arg, len(matches))
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
