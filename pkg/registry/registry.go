// Package registry tracks named workspaces — a name, a filesystem path, and a
// last-active timestamp — persisted as a single JSON document. The registry
// owns the list and the stored paths, not the directory contents behind them.
//
// Every mutation rewrites the whole file. There is no locking: when two
// processes mutate concurrently the later write wins, an accepted limitation
// of the single-writer deployment this serves.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

var ErrNotFound = errors.New("registry: workspace not found")
var ErrAlreadyExists = errors.New("registry: workspace already exists")

const storeFileName = "workspaces.json"

// timeFormat is the persisted last_active layout, a millisecond-precision UTC
// ISO-8601 instant.
const timeFormat = "2006-01-02T15:04:05.000Z"

// Workspace is a named root directory under which one goal hierarchy lives.
type Workspace struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	LastActive string `json:"last_active"`
}

type registryState struct {
	Workspaces []Workspace `json:"workspaces"`
}

// Registry is the JSON-backed workspace list. Call Init before any other
// operation.
type Registry struct {
	dir    string
	state  registryState
	active string
	now    func() time.Time
}

// New returns a registry backed by <dir>/workspaces.json.
func New(dir string) *Registry {
	return &Registry{dir: dir, now: time.Now}
}

// Init ensures the backing directory exists and loads the persisted list. A
// missing store file initializes an empty list and persists it; any other
// load failure (malformed content, permission error) is returned and must be
// treated as fatal by the caller.
func (r *Registry) Init() error {
	if err := os.MkdirAll(r.dir, 0o750); err != nil {
		return fmt.Errorf("registry: init directory %s: %w", r.dir, err)
	}
	b, err := os.ReadFile(r.path())
	if errors.Is(err, os.ErrNotExist) {
		r.state = registryState{}
		return r.save()
	}
	if err != nil {
		return fmt.Errorf("registry: read %s: %w", r.path(), err)
	}
	var state registryState
	if err := json.Unmarshal(b, &state); err != nil {
		return fmt.Errorf("registry: parse %s: %w", r.path(), err)
	}
	r.state = state
	return nil
}

// List returns all workspaces ordered most recently active first. Ties keep
// insertion order.
func (r *Registry) List() []Workspace {
	out := make([]Workspace, len(r.state.Workspaces))
	copy(out, r.state.Workspaces)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActive > out[j].LastActive
	})
	return out
}

// Get returns the workspace registered under a name.
func (r *Registry) Get(name string) (Workspace, error) {
	for _, ws := range r.state.Workspaces {
		if ws.Name == name {
			return ws, nil
		}
	}
	return Workspace{}, fmt.Errorf("registry: %q: %w", name, ErrNotFound)
}

// Create registers a new workspace and persists the list. Names are matched
// case-sensitively; a duplicate fails with ErrAlreadyExists. The path is
// stored as given — an unreachable path only surfaces later, when a goal
// store is rooted at it.
func (r *Registry) Create(name, path string) (Workspace, error) {
	for _, ws := range r.state.Workspaces {
		if ws.Name == name {
			return Workspace{}, fmt.Errorf("registry: %q: %w", name, ErrAlreadyExists)
		}
	}
	ws := Workspace{
		Name:       name,
		Path:       path,
		LastActive: r.timestamp(),
	}
	prev := r.state.Workspaces
	r.state.Workspaces = append(r.state.Workspaces, ws)
	if err := r.save(); err != nil {
		r.state.Workspaces = prev
		return Workspace{}, err
	}
	r.active = name
	return ws, nil
}

// Touch updates a workspace's last-active timestamp, persists the list, and
// returns the updated workspace.
func (r *Registry) Touch(name string) (Workspace, error) {
	for i := range r.state.Workspaces {
		if r.state.Workspaces[i].Name != name {
			continue
		}
		prev := r.state.Workspaces[i].LastActive
		r.state.Workspaces[i].LastActive = r.timestamp()
		if err := r.save(); err != nil {
			r.state.Workspaces[i].LastActive = prev
			return Workspace{}, err
		}
		r.active = name
		return r.state.Workspaces[i], nil
	}
	return Workspace{}, fmt.Errorf("registry: %q: %w", name, ErrNotFound)
}

// ActiveWorkspace returns the workspace most recently created or touched
// within this process. The selection is transient session state and is never
// persisted; it is distinct from the persisted last_active ordering.
func (r *Registry) ActiveWorkspace() (Workspace, bool) {
	if r.active == "" {
		return Workspace{}, false
	}
	ws, err := r.Get(r.active)
	if err != nil {
		return Workspace{}, false
	}
	return ws, true
}

func (r *Registry) save() error {
	b, err := json.MarshalIndent(r.state, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: encode: %w", err)
	}
	path := r.path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("registry: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("registry: atomic rename %s: %w", path, err)
	}
	return nil
}

func (r *Registry) timestamp() string {
	return r.now().UTC().Format(timeFormat)
}

func (r *Registry) path() string {
	return filepath.Join(r.dir, storeFileName)
}
