package goal

import "time"

// TimeFormat is the canonical on-disk timestamp layout: a millisecond-precision
// UTC ISO-8601 instant. Every timestamp the store persists — in state.json and
// in learning filenames — uses this exact form. Lexicographic comparison of two
// such timestamps matches chronological order, which the learning listing
// relies on.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Goal is the metadata returned when a goal is created.
type Goal struct {
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary pairs a goal name with its extracted description. Description is nil
// when the goal's plan is missing or does not start with a top-level heading.
type Summary struct {
	Name        string
	Description *string
}

// Learning is a structured note recorded during work. Timestamp is its
// identity within a scope and must be in TimeFormat.
type Learning struct {
	Timestamp    string
	Title        string
	Context      string
	Details      string
	Rationale    string
	Alternatives string
	References   string
}

// Entry is a stored learning as read back from disk.
type Entry struct {
	Timestamp string
	Content   string
}

// Scope selects where a learning lives. The zero value is the workspace-level
// scope; a non-empty Goal scopes the learning to that goal's learnings
// directory.
type Scope struct {
	Goal string
}

// WorkspaceScope returns the workspace-level learning scope.
func WorkspaceScope() Scope {
	return Scope{}
}

// GoalScope returns the learning scope for a named goal.
func GoalScope(name string) Scope {
	return Scope{Goal: name}
}

// State is the persisted per-workspace goal state, stored as state.json under
// the goals root.
type State struct {
	ActiveGoal  *string `json:"active_goal"`
	LastUpdated string  `json:"last_updated"`
}
