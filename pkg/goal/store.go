// Package goal persists one workspace's goal hierarchy: goal directories with
// a plan document and learning entries, workspace-level learnings, and an
// active-goal pointer. Everything lives under <workspace>/.goals:
//
//	.goals/state.json
//	.goals/goals/<name>/plan.md
//	.goals/goals/<name>/learnings/<encoded-timestamp>.md
//	.goals/learnings/<encoded-timestamp>.md
//
// The store assumes a single writer. Existence checks followed by writes can
// race with another process mutating the same hierarchy; the later write wins.
package goal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrNotFound = errors.New("goal: not found")
var ErrAlreadyExists = errors.New("goal: already exists")
var ErrInvalidName = errors.New("goal: invalid name")

const (
	rootDirName      = ".goals"
	goalsDirName     = "goals"
	learningsDirName = "learnings"
	stateFileName    = "state.json"
	planFileName     = "plan.md"
)

// Store owns the goal hierarchy rooted at one workspace path. It never reads
// or writes outside that hierarchy and never consults the workspace registry.
type Store struct {
	root  string
	state State
	now   func() time.Time
}

// NewStore returns a store rooted at workspaceDir/.goals. Call Init before any
// other operation.
func NewStore(workspaceDir string) *Store {
	return &Store{
		root: filepath.Join(workspaceDir, rootDirName),
		now:  time.Now,
	}
}

// Init creates the goals hierarchy if it does not exist and loads state.json.
// A missing state file is replaced with a default (no active goal) and
// persisted; any other read or parse failure is returned to the caller.
func (s *Store) Init() error {
	for _, dir := range []string{s.root, s.goalsDir(), s.learningsDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("goal: init directory %s: %w", dir, err)
		}
	}

	b, err := os.ReadFile(s.statePath())
	if errors.Is(err, os.ErrNotExist) {
		s.state = State{LastUpdated: s.timestamp()}
		return s.saveState()
	}
	if err != nil {
		return fmt.Errorf("goal: read state %s: %w", s.statePath(), err)
	}
	var state State
	if err := json.Unmarshal(b, &state); err != nil {
		return fmt.Errorf("goal: parse state %s: %w", s.statePath(), err)
	}
	s.state = state
	return nil
}

// CreateGoal creates a goal directory with its learnings subdirectory and
// writes the plan document (which may be empty). The steps are not atomic; a
// crash mid-way can leave a partial goal behind.
func (s *Store) CreateGoal(name, plan string) (Goal, error) {
	if err := validateName(name); err != nil {
		return Goal{}, err
	}
	dir := s.goalDir(name)
	if _, err := os.Stat(dir); err == nil {
		return Goal{}, fmt.Errorf("goal: create %q: %w", name, ErrAlreadyExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return Goal{}, fmt.Errorf("goal: stat %s: %w", dir, err)
	}
	if err := os.MkdirAll(filepath.Join(dir, learningsDirName), 0o750); err != nil {
		return Goal{}, fmt.Errorf("goal: create %q: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, planFileName), []byte(plan), 0o600); err != nil {
		return Goal{}, fmt.Errorf("goal: write plan for %q: %w", name, err)
	}
	now := s.now().UTC()
	return Goal{Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// Plan returns the plan document for a goal. A missing goal is reported
// through the second return value, not as an error.
func (s *Store) Plan(name string) (string, bool, error) {
	if err := validateName(name); err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(filepath.Join(s.goalDir(name), planFileName))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("goal: read plan for %q: %w", name, err)
	}
	return string(b), true, nil
}

// UpdatePlan overwrites the plan document of an existing goal.
func (s *Store) UpdatePlan(name, plan string) error {
	if err := validateName(name); err != nil {
		return err
	}
	dir := s.goalDir(name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("goal: update plan for %q: %w", name, ErrNotFound)
	} else if err != nil {
		return fmt.Errorf("goal: stat %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, planFileName), []byte(plan), 0o600); err != nil {
		return fmt.Errorf("goal: write plan for %q: %w", name, err)
	}
	return nil
}

// Description derives a short description from a goal's plan document. Both a
// missing plan and a plan that does not start with a top-level heading yield
// ok=false.
func (s *Store) Description(name string) (string, bool, error) {
	plan, ok, err := s.Plan(name)
	if err != nil || !ok {
		return "", false, err
	}
	summary, ok := ExtractSummary(plan)
	return summary, ok, nil
}

// ListGoals returns the names of all goal directories. Plain files under the
// goals root are ignored. The order is whatever the directory enumeration
// yields; callers must not rely on it.
func (s *Store) ListGoals() ([]string, error) {
	entries, err := os.ReadDir(s.goalsDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("goal: list %s: %w", s.goalsDir(), err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// GoalSummaries pairs every goal with its extracted description. Goals whose
// description cannot be derived are included with a nil description rather
// than omitted.
func (s *Store) GoalSummaries() ([]Summary, error) {
	names, err := s.ListGoals()
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(names))
	for _, name := range names {
		summary := Summary{Name: name}
		desc, ok, err := s.Description(name)
		if err != nil {
			return nil, err
		}
		if ok {
			summary.Description = &desc
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SetActiveGoal marks a goal as the workspace's active goal and persists the
// state file. The goal directory must exist; on failure the previous active
// goal is left unchanged.
func (s *Store) SetActiveGoal(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if _, err := os.Stat(s.goalDir(name)); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("goal: set active %q: %w", name, ErrNotFound)
	} else if err != nil {
		return fmt.Errorf("goal: stat %s: %w", s.goalDir(name), err)
	}
	prev := s.state
	s.state.ActiveGoal = &name
	s.state.LastUpdated = s.timestamp()
	if err := s.saveState(); err != nil {
		s.state = prev
		return err
	}
	return nil
}

// ActiveGoal returns the active goal from the loaded state. It reflects the
// last Init or SetActiveGoal call and does not read the disk.
func (s *Store) ActiveGoal() (string, bool) {
	if s.state.ActiveGoal == nil {
		return "", false
	}
	return *s.state.ActiveGoal, true
}

func (s *Store) saveState() error {
	b, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("goal: encode state: %w", err)
	}
	path := s.statePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("goal: write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("goal: atomic rename %s: %w", path, err)
	}
	return nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(TimeFormat)
}

func (s *Store) goalsDir() string {
	return filepath.Join(s.root, goalsDirName)
}

func (s *Store) learningsDir() string {
	return filepath.Join(s.root, learningsDirName)
}

func (s *Store) goalDir(name string) string {
	return filepath.Join(s.goalsDir(), name)
}

func (s *Store) statePath() string {
	return filepath.Join(s.root, stateFileName)
}

// validateName rejects goal names that cannot serve as a directory name.
// Names double as path segments, so separators and the dot directories would
// escape the goals root.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("goal: empty name: %w", ErrInvalidName)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("goal: name %q: %w", name, ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("goal: name %q contains path separator: %w", name, ErrInvalidName)
	}
	return nil
}
