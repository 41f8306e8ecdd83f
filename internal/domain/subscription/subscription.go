// Package subscription defines the subscription reference value object.
package subscription

import (
	"fmt"
	"strings"
)

// Ref identifies one watched subscription endpoint. The name is the identity
// key; uniqueness is enforced by the store. Immutable once constructed.
type Ref struct {
	name string
	url  string
	note string
}

// New creates a validated Ref.
func New(name, url, note string) (Ref, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" {
		return Ref{}, fmt.Errorf("subscription name is required")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return Ref{}, fmt.Errorf("subscription url must be http(s), got %q", url)
	}
	return Ref{name: name, url: url, note: note}, nil
}

// Reconstruct rebuilds a Ref from stored data without validation.
func Reconstruct(name, url, note string) Ref {
	return Ref{name: name, url: url, note: note}
}

// Name returns the identity key.
func (r Ref) Name() string { return r.name }

// URL returns the subscription endpoint.
func (r Ref) URL() string { return r.url }

// Note returns the operator note, possibly empty.
func (r Ref) Note() string { return r.note }

// WithNote returns a copy of the Ref carrying a new note.
func (r Ref) WithNote(note string) Ref {
	r.note = note
	return r
}
