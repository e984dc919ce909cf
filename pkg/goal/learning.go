package goal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// encodedTimestampLen is the length of a canonical ISO-8601 millisecond UTC
// instant ("2024-01-01T00:00:00.000Z").
const encodedTimestampLen = 24

// EncodeTimestamp converts a canonical ISO-8601 UTC instant into a
// filesystem-safe learning filename by substituting each ':' and '.' with '_'
// and appending ".md". Timestamps that are not in exactly TimeFormat are
// rejected; the substitution only round-trips for that fixed-width form.
func EncodeTimestamp(ts string) (string, error) {
	if _, err := time.Parse(TimeFormat, ts); err != nil {
		return "", fmt.Errorf("goal: timestamp %q is not a canonical UTC instant: %w", ts, err)
	}
	r := strings.NewReplacer(":", "_", ".", "_")
	return r.Replace(ts) + ".md", nil
}

// DecodeTimestamp is the inverse of EncodeTimestamp. The substituted
// punctuation sits at fixed offsets in the fixed-width encoded form, so the
// decode restores ':' at offsets 13 and 16 and '.' at offset 19. Filenames
// that do not match that shape are rejected.
func DecodeTimestamp(filename string) (string, error) {
	base, ok := strings.CutSuffix(filename, ".md")
	if !ok || len(base) != encodedTimestampLen {
		return "", fmt.Errorf("goal: filename %q is not an encoded timestamp", filename)
	}
	b := []byte(base)
	if b[13] != '_' || b[16] != '_' || b[19] != '_' {
		return "", fmt.Errorf("goal: filename %q is not an encoded timestamp", filename)
	}
	b[13], b[16], b[19] = ':', ':', '.'
	ts := string(b)
	if _, err := time.Parse(TimeFormat, ts); err != nil {
		return "", fmt.Errorf("goal: filename %q decodes to invalid timestamp: %w", filename, err)
	}
	return ts, nil
}

// formatLearning renders a learning into its on-disk markdown document. Field
// values are written verbatim; markdown-special characters are not escaped.
func formatLearning(l Learning) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", l.Title)
	fmt.Fprintf(&sb, "## Context\n\n%s\n\n", l.Context)
	fmt.Fprintf(&sb, "## Details\n\n%s\n\n", l.Details)
	fmt.Fprintf(&sb, "## Rationale\n\n%s\n\n", l.Rationale)
	fmt.Fprintf(&sb, "## Alternatives Considered\n\n%s\n\n", l.Alternatives)
	fmt.Fprintf(&sb, "## References\n\n%s\n", l.References)
	return sb.String()
}

// AddLearning writes a learning into its scope directory. The file is created
// exclusively, so a second learning with the same timestamp in the same scope
// fails with ErrAlreadyExists even when two writers race. Learnings are
// immutable once written.
func (s *Store) AddLearning(l Learning, scope Scope) error {
	dir, err := s.scopeDir(scope)
	if err != nil {
		return err
	}
	filename, err := EncodeTimestamp(l.Timestamp)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("goal: init learnings directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("goal: learning %s: %w", l.Timestamp, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("goal: create learning %s: %w", path, err)
	}
	_, werr := f.WriteString(formatLearning(l))
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("goal: write learning %s: %w", path, werr)
	}
	if cerr != nil {
		return fmt.Errorf("goal: close learning %s: %w", path, cerr)
	}
	return nil
}

// Learnings returns all learnings in a scope, most recent first. Files whose
// names do not decode to a canonical timestamp are ignored. A missing scope
// directory yields an empty collection.
func (s *Store) Learnings(scope Scope) ([]Entry, error) {
	dir, err := s.scopeDir(scope)
	if err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("goal: list learnings %s: %w", dir, err)
	}

	var out []Entry
	for _, e := range dirEntries {
		if e.IsDir() {
			continue
		}
		ts, err := DecodeTimestamp(e.Name())
		if err != nil {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("goal: read learning %s: %w", e.Name(), err)
		}
		out = append(out, Entry{Timestamp: ts, Content: string(b)})
	}
	// Fixed-width UTC timestamps sort lexicographically in chronological
	// order, so a plain string comparison gives descending recency.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out, nil
}

// Learning returns the learning stored under a timestamp in a scope.
func (s *Store) Learning(timestamp string, scope Scope) (Entry, error) {
	dir, err := s.scopeDir(scope)
	if err != nil {
		return Entry{}, err
	}
	filename, err := EncodeTimestamp(timestamp)
	if err != nil {
		return Entry{}, err
	}
	b, err := os.ReadFile(filepath.Join(dir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, fmt.Errorf("goal: learning %s: %w", timestamp, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("goal: read learning %s: %w", filename, err)
	}
	return Entry{Timestamp: timestamp, Content: string(b)}, nil
}

// scopeDir resolves a learning scope to its directory. A goal scope requires
// the goal directory to exist.
func (s *Store) scopeDir(scope Scope) (string, error) {
	if scope.Goal == "" {
		return s.learningsDir(), nil
	}
	if err := validateName(scope.Goal); err != nil {
		return "", err
	}
	dir := s.goalDir(scope.Goal)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("goal: %q: %w", scope.Goal, ErrNotFound)
	} else if err != nil {
		return "", fmt.Errorf("goal: stat %s: %w", dir, err)
	}
	return filepath.Join(dir, learningsDirName), nil
}
