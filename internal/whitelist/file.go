package whitelist

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Entry is one whitelist record in the server's whitelist.json.
type Entry struct {
	Name string `json:"name"`
}

// FileRegistry reads and rewrites the server's whitelist.json. It holds the
// entries in memory between mutations; the file is rewritten in full on every
// change. Single-writer discipline is the caller's responsibility.
type FileRegistry struct {
	path    string
	entries []Entry
}

// OpenFile loads the whitelist file at path. A missing file is an empty
// whitelist.
func OpenFile(path string) (*FileRegistry, error) {
	r := &FileRegistry{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &r.entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return r, nil
}

// IsAdmitted reports whether name is whitelisted. Names compare
// case-insensitively, matching the game server's behavior.
func (r *FileRegistry) IsAdmitted(name string) (bool, error) {
	return r.index(name) >= 0, nil
}

// SetAdmitted adds or removes name and rewrites the file.
func (r *FileRegistry) SetAdmitted(name string, admitted bool) error {
	idx := r.index(name)
	switch {
	case admitted && idx < 0:
		r.entries = append(r.entries, Entry{Name: name})
	case !admitted && idx >= 0:
		r.entries = append(r.entries[:idx], r.entries[idx+1:]...)
	default:
		return nil
	}
	return r.write()
}

func (r *FileRegistry) index(name string) int {
	for i, e := range r.entries {
		if strings.EqualFold(e.Name, name) {
			return i
		}
	}
	return -1
}

func (r *FileRegistry) write() error {
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", r.path, err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.path, err)
	}
	return nil
}
