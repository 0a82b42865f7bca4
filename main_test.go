package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"petsim/internal/pet"
	"petsim/internal/roster"
	"petsim/internal/storage/file"
)

// setupTestEnv points the CLI at a throwaway data directory
func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PETSIM_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("PETSIM_DATA_DIR", dir)
	t.Setenv("PETSIM_STORAGE", "file")
	t.Setenv("PETSIM_LOG_FILE", filepath.Join(dir, "petsim.log"))
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return dir
}

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := run(args, strings.NewReader(""), &out); err != nil {
		t.Fatalf("petsim %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func loadRoster(t *testing.T, dir string) roster.Roster {
	t.Helper()
	port, err := file.New(dir)
	if err != nil {
		t.Fatalf("Failed to open data dir: %v", err)
	}
	r, err := port.Load(context.Background())
	if err != nil {
		t.Fatalf("Failed to load roster: %v", err)
	}
	return r
}

func TestAdoptAndList(t *testing.T) {
	dir := setupTestEnv(t)

	out := runCmd(t, "adopt", "Mochi")
	if !strings.HasPrefix(out, "Adopted Mochi") {
		t.Errorf("Unexpected adopt output %q", out)
	}

	lines := strings.Split(strings.TrimSpace(runCmd(t, "list")), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 pets, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[1], "*") || !strings.Contains(lines[1], "Mochi") {
		t.Errorf("Expected Mochi to be selected, got %q", lines[1])
	}
	if strings.HasPrefix(lines[0], "*") {
		t.Errorf("Expected only one selected pet, got %q", lines[0])
	}

	r := loadRoster(t, dir)
	if r.Pets[1].ID != r.SelectedID {
		t.Error("Expected the adopted pet to be persisted as selected")
	}
}

func TestSelectByPrefix(t *testing.T) {
	dir := setupTestEnv(t)
	runCmd(t, "adopt", "Second")
	first := loadRoster(t, dir).Pets[0].ID

	out := runCmd(t, "select", first[:8])
	if !strings.Contains(out, first) {
		t.Errorf("Unexpected select output %q", out)
	}
	if got := loadRoster(t, dir).SelectedID; got != first {
		t.Errorf("Expected %s selected, got %s", first, got)
	}

	var buf bytes.Buffer
	if err := run([]string{"select", "no-such-pet"}, nil, &buf); err == nil {
		t.Error("Expected an error for an unknown id")
	}
}

func TestResolveID(t *testing.T) {
	pets := []pet.State{{ID: "abc-1"}, {ID: "abc-2"}, {ID: "xyz"}}
	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr bool
	}{
		{"exact id", "xyz", "xyz", false},
		{"unique prefix", "x", "xyz", false},
		{"exact beats prefix", "abc-1", "abc-1", false},
		{"ambiguous prefix", "abc", "", true},
		{"unknown", "nope", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveID(pets, tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("resolveID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("resolveID(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestRenameCommand(t *testing.T) {
	dir := setupTestEnv(t)
	runCmd(t, "list")
	id := loadRoster(t, dir).Pets[0].ID

	runCmd(t, "rename", id, "Biscuit", "Jr")
	if got := loadRoster(t, dir).Pets[0].Name; got != "Biscuit Jr" {
		t.Errorf("Expected name 'Biscuit Jr', got %q", got)
	}

	var buf bytes.Buffer
	if err := run([]string{"rename", id}, nil, &buf); err == nil {
		t.Error("Expected usage error without a name")
	}
}

func TestActCommand(t *testing.T) {
	dir := setupTestEnv(t)

	out := runCmd(t, "act", "feed")
	if strings.Contains(out, "ignored") {
		t.Errorf("Expected first feed to land, got %q", out)
	}
	r := loadRoster(t, dir)
	if r.Pets[0].PetState != pet.ActivityFeeding {
		t.Errorf("Expected feeding, got %s", r.Pets[0].PetState)
	}

	out = runCmd(t, "act", "FEED")
	if !strings.Contains(out, "feed ignored") {
		t.Errorf("Expected second feed to be ignored, got %q", out)
	}

	var buf bytes.Buffer
	if err := run([]string{"act", "dance"}, nil, &buf); err == nil {
		t.Error("Expected an error for an unknown action")
	}
}

func TestExportImport(t *testing.T) {
	dir := setupTestEnv(t)
	runCmd(t, "adopt", "Original")
	path := filepath.Join(dir, "export.json")

	runCmd(t, "export", "-o", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	var payload roster.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}
	if payload.Version != roster.ExportVersion || payload.Pet == nil || payload.Pet.Name != "Original" {
		t.Fatalf("Unexpected payload %+v", payload)
	}

	localID := loadRoster(t, dir).SelectedID
	payload.Pet.ID = "elsewhere"
	payload.Pet.Name = "Traveller"
	payload.Pet.Hunger = 250
	data, _ = json.Marshal(payload)

	var out bytes.Buffer
	if err := run([]string{"import", "-"}, bytes.NewReader(data), &out); err != nil {
		t.Fatalf("import: %v", err)
	}

	r := loadRoster(t, dir)
	got := r.Pets[r.Find(localID)]
	if got.Name != "Traveller" {
		t.Errorf("Expected imported name, got %q", got.Name)
	}
	if got.Hunger != pet.MaxStat {
		t.Errorf("Expected hunger clamped to %.0f, got %.1f", pet.MaxStat, got.Hunger)
	}

	if err := run([]string{"import", "-"}, strings.NewReader(`{"version":1}`), &out); err == nil {
		t.Error("Expected an error for an empty payload")
	}
}

func TestStatsPlain(t *testing.T) {
	setupTestEnv(t)
	out := runCmd(t, "stats", "-plain")
	if !strings.Contains(out, pet.DefaultPetName) {
		t.Errorf("Expected stats for %s, got:\n%s", pet.DefaultPetName, out)
	}
}

func TestSchemaCommand(t *testing.T) {
	out := runCmd(t, "schema")
	if !strings.Contains(out, "petsim export") {
		t.Errorf("Expected export schema, got %q", out)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	dir := setupTestEnv(t)
	runCmd(t, "adopt", "Extra")

	var buf bytes.Buffer
	if err := run([]string{"reset"}, nil, &buf); err == nil {
		t.Error("Expected reset without -yes to fail")
	}
	if n := len(loadRoster(t, dir).Pets); n != 2 {
		t.Errorf("Expected 2 pets after refused reset, got %d", n)
	}

	runCmd(t, "reset", "-yes")
	if n := len(loadRoster(t, dir).Pets); n != 1 {
		t.Errorf("Expected 1 pet after reset, got %d", n)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		storage string
		args    []string
		wantErr string
	}{
		{"unknown command", "file", []string{"dance"}, "unknown command"},
		{"unknown storage", "floppy", []string{"list"}, "unknown storage"},
		{"postgres without dsn", "postgres", []string{"list"}, "database dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestEnv(t)
			t.Setenv("PETSIM_STORAGE", tt.storage)
			t.Setenv("DB_DSN", "")

			var buf bytes.Buffer
			err := run(tt.args, nil, &buf)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	out := runCmd(t, "help")
	if !strings.Contains(out, "Usage: petsim") {
		t.Errorf("Unexpected help output %q", out)
	}
}
