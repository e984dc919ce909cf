package goal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s := NewStore(dir)
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s, dir
}

func TestInitCreatesHierarchyAndDefaultState(t *testing.T) {
	_, dir := newTestStore(t)

	for _, sub := range []string{".goals", ".goals/goals", ".goals/learnings"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s, got err=%v", sub, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".goals", "state.json")); err != nil {
		t.Errorf("Expected default state.json, got %v", err)
	}
}

func TestInitLeavesExistingHierarchyUntouched(t *testing.T) {
	s, dir := newTestStore(t)
	if _, err := s.CreateGoal("ship-it", "# Ship it\n\nDo the thing."); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	if err := s.SetActiveGoal("ship-it"); err != nil {
		t.Fatalf("SetActiveGoal failed: %v", err)
	}

	// A fresh store against the same workspace sees the persisted state.
	reopened := NewStore(dir)
	if err := reopened.Init(); err != nil {
		t.Fatalf("Init on existing hierarchy failed: %v", err)
	}
	active, ok := reopened.ActiveGoal()
	if !ok || active != "ship-it" {
		t.Errorf("Expected active goal ship-it after reload, got %q ok=%v", active, ok)
	}
	plan, ok, err := reopened.Plan("ship-it")
	if err != nil || !ok {
		t.Fatalf("Plan after reload failed: ok=%v err=%v", ok, err)
	}
	if plan != "# Ship it\n\nDo the thing." {
		t.Errorf("Plan content changed across restart: %q", plan)
	}
}

func TestInitMalformedState(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".goals"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".goals", "state.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewStore(dir)
	if err := s.Init(); err == nil {
		t.Fatal("Expected Init to fail on malformed state.json")
	}
}

func TestCreateGoalPlanRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	const plan = "# Refactor parser\n\nSplit the lexer out.\n"
	g, err := s.CreateGoal("refactor-parser", plan)
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	if g.Name != "refactor-parser" {
		t.Errorf("Expected goal name refactor-parser, got %q", g.Name)
	}
	if g.CreatedAt.IsZero() || !g.CreatedAt.Equal(g.UpdatedAt) {
		t.Errorf("Expected matching creation timestamps, got %v / %v", g.CreatedAt, g.UpdatedAt)
	}

	got, ok, err := s.Plan("refactor-parser")
	if err != nil || !ok {
		t.Fatalf("Plan failed: ok=%v err=%v", ok, err)
	}
	if got != plan {
		t.Errorf("Expected plan %q, got %q", plan, got)
	}
}

func TestCreateGoalEmptyPlan(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.CreateGoal("empty", ""); err != nil {
		t.Fatalf("CreateGoal with empty plan failed: %v", err)
	}
	got, ok, err := s.Plan("empty")
	if err != nil || !ok {
		t.Fatalf("Plan failed: ok=%v err=%v", ok, err)
	}
	if got != "" {
		t.Errorf("Expected empty plan, got %q", got)
	}
}

func TestCreateGoalDuplicate(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.CreateGoal("dup", "first plan"); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	_, err := s.CreateGoal("dup", "second plan")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("Expected ErrAlreadyExists, got %v", err)
	}

	// The original plan is unaffected.
	got, _, err := s.Plan("dup")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got != "first plan" {
		t.Errorf("Expected original plan preserved, got %q", got)
	}
}

func TestPlanMissingGoal(t *testing.T) {
	s, _ := newTestStore(t)

	plan, ok, err := s.Plan("nope")
	if err != nil {
		t.Fatalf("Plan on missing goal should not error, got %v", err)
	}
	if ok || plan != "" {
		t.Errorf("Expected absent plan, got ok=%v plan=%q", ok, plan)
	}
}

func TestUpdatePlan(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.UpdatePlan("missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}

	if _, err := s.CreateGoal("g", "old"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdatePlan("g", "new"); err != nil {
		t.Fatalf("UpdatePlan failed: %v", err)
	}
	got, _, err := s.Plan("g")
	if err != nil {
		t.Fatal(err)
	}
	if got != "new" {
		t.Errorf("Expected updated plan, got %q", got)
	}
}

func TestListGoals(t *testing.T) {
	s, dir := newTestStore(t)

	names, err := s.ListGoals()
	if err != nil {
		t.Fatalf("ListGoals failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected no goals, got %v", names)
	}

	for _, name := range []string{"alpha", "beta"} {
		if _, err := s.CreateGoal(name, ""); err != nil {
			t.Fatal(err)
		}
	}
	// Plain files under the goals root are not goals.
	if err := os.WriteFile(filepath.Join(dir, ".goals", "goals", "stray.md"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	names, err = s.ListGoals()
	if err != nil {
		t.Fatalf("ListGoals failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("Expected 2 goals, got %v", names)
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["alpha"] || !seen["beta"] {
		t.Errorf("Expected alpha and beta, got %v", names)
	}
}

func TestListGoalsMissingRoot(t *testing.T) {
	s := NewStore(t.TempDir()) // no Init, root never created

	names, err := s.ListGoals()
	if err != nil {
		t.Fatalf("ListGoals on missing root should not error, got %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected empty list, got %v", names)
	}
}

func TestGoalSummaries(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.CreateGoal("titled", "# Add caching\n\nCache plan reads."); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateGoal("shapeless", "no heading here"); err != nil {
		t.Fatal(err)
	}

	summaries, err := s.GoalSummaries()
	if err != nil {
		t.Fatalf("GoalSummaries failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(summaries))
	}
	byName := map[string]Summary{}
	for _, sum := range summaries {
		byName[sum.Name] = sum
	}
	titled := byName["titled"]
	if titled.Description == nil || *titled.Description != "Add caching\n\nCache plan reads." {
		t.Errorf("Expected description for titled goal, got %v", titled.Description)
	}
	if byName["shapeless"].Description != nil {
		t.Errorf("Expected nil description for shapeless goal, got %q", *byName["shapeless"].Description)
	}
}

func TestSetActiveGoal(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.CreateGoal("first", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.SetActiveGoal("first"); err != nil {
		t.Fatalf("SetActiveGoal failed: %v", err)
	}

	// Setting a nonexistent goal fails and leaves the prior state intact.
	if err := s.SetActiveGoal("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	active, ok := s.ActiveGoal()
	if !ok || active != "first" {
		t.Errorf("Expected active goal to remain first, got %q ok=%v", active, ok)
	}
}

func TestActiveGoalDefault(t *testing.T) {
	s, _ := newTestStore(t)

	if active, ok := s.ActiveGoal(); ok {
		t.Errorf("Expected no active goal on fresh store, got %q", active)
	}
}

func TestValidateName(t *testing.T) {
	s, _ := newTestStore(t)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.CreateGoal(name, ""); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Expected ErrInvalidName for %q, got %v", name, err)
			}
			if err := s.SetActiveGoal(name); !errors.Is(err, ErrInvalidName) {
				t.Errorf("Expected ErrInvalidName for %q, got %v", name, err)
			}
		})
	}
}
