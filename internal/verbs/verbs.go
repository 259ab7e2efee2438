// Package verbs provides the DRIXL verb vocabulary: a registry mapping
// short action codes to their full meaning. Vocabulary membership is a
// semantic check layered on top of the grammar — an unregistered verb still
// parses, it just reports as unknown here.
package verbs

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// standard is the built-in vocabulary every new registry starts with.
var standard = map[string]string{
	"ANLY":  "Analyze input data or content",
	"XTRCT": "Extract specific fields or values",
	"SUMM":  "Summarize content into a shorter form",
	"EXEC":  "Execute an action or command",
	"VALD":  "Validate output against a schema or rule",
	"ESCL":  "Escalate to human or manager agent",
	"ROUT":  "Route message or payload to another agent",
	"STOR":  "Save data to context store or memory",
	"FETCH": "Retrieve data from a URL or source",
	"CMPX":  "Compare two values and return diff",
	"FLTR":  "Filter a dataset by given criteria",
	"TRNSF": "Transform data format (e.g., JSON to CSV)",
	"NTFY":  "Notify agent or system of an event",
	"RETRY": "Retry the previous failed task",
	"HALT":  "Stop pipeline execution immediately",
}

// Entry is a single vocabulary entry.
type Entry struct {
	Code    string `json:"code"`
	Meaning string `json:"meaning"`
}

// Registry holds a verb vocabulary. It is an explicitly owned component,
// not a hidden singleton, so isolated registries can coexist. Reads are
// concurrent; registration is serialized.
type Registry struct {
	mu    sync.RWMutex
	verbs map[string]string
}

// NewRegistry creates a registry seeded with the standard vocabulary.
func NewRegistry() *Registry {
	verbs := make(map[string]string, len(standard))
	for code, meaning := range standard {
		verbs[code] = meaning
	}
	return &Registry{verbs: verbs}
}

// NewEmptyRegistry creates a registry with no entries.
func NewEmptyRegistry() *Registry {
	return &Registry{verbs: make(map[string]string)}
}

// Register adds or overwrites a verb. Codes are case-sensitive and must be
// 2-6 characters.
func (r *Registry) Register(code, meaning string) error {
	if len(code) < 2 || len(code) > 6 {
		return fmt.Errorf("verb code %q must be 2-6 characters", code)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbs[code] = meaning
	return nil
}

// Lookup returns the meaning of a code.
func (r *Registry) Lookup(code string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meaning, ok := r.verbs[code]
	return meaning, ok
}

// Search returns entries whose code or meaning contains the substring,
// case-insensitively, sorted by code.
func (r *Registry) Search(substr string) []Entry {
	needle := strings.ToLower(substr)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Entry
	for code, meaning := range r.verbs {
		if strings.Contains(strings.ToLower(code), needle) ||
			strings.Contains(strings.ToLower(meaning), needle) {
			out = append(out, Entry{Code: code, Meaning: meaning})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Entries returns the full vocabulary sorted by code.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.verbs))
	for code, meaning := range r.verbs {
		out = append(out, Entry{Code: code, Meaning: meaning})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Len returns the number of registered verbs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.verbs)
}

// Unknown returns the actions that are not in the vocabulary, in input
// order. Callers surface these as warnings, never as parse failures.
func (r *Registry) Unknown(actions []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var unknown []string
	for _, a := range actions {
		if _, ok := r.verbs[a]; !ok {
			unknown = append(unknown, a)
		}
	}
	return unknown
}

// LoadFile merges a YAML vocabulary file (a flat code: meaning map) into
// the registry. Community vocabularies extend the standard set this way.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read verbs file: %w", err)
	}
	var custom map[string]string
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return fmt.Errorf("parse verbs file: %w", err)
	}
	for code, meaning := range custom {
		if err := r.Register(code, meaning); err != nil {
			return err
		}
	}
	return nil
}
