package domain

import (
	"fmt"
	"reflect"
	"sort"
	"time"
)

// Profile is a loosely-typed taste profile record as produced by the profile
// builder or decoded from JSON. Callers own it; nothing in this module mutates it.
type Profile map[string]any

// ProfileFromAny checks that v is a mapping with string keys and returns it as a
// Profile. Any other top-level shape is rejected with ErrInvalidProfile.
func ProfileFromAny(v any) (Profile, error) {
	switch p := v.(type) {
	case Profile:
		if p == nil {
			return nil, ErrInvalidProfile
		}
		return p, nil
	case map[string]any:
		if p == nil {
			return nil, ErrInvalidProfile
		}
		return Profile(p), nil
	case nil:
		return nil, ErrInvalidProfile
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, fmt.Errorf("%w: got %T", ErrInvalidProfile, v)
	}

	out := make(Profile, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, nil
}

// StoredProfile is a profile as persisted by a ProfileRepository
type StoredProfile struct {
	UserID    string    `json:"user_id"`
	UpdatedAt time.Time `json:"updated_at"`
	Profile   Profile   `json:"profile"`
}

// IdentifierSet is a set of normalized identifiers
type IdentifierSet map[string]struct{}

// NewIdentifierSet creates a set holding the given identifiers
func NewIdentifierSet(ids ...string) IdentifierSet {
	s := make(IdentifierSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id into the set. Empty identifiers are ignored.
func (s IdentifierSet) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Has reports whether id is in the set
func (s IdentifierSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of identifiers in the set
func (s IdentifierSet) Len() int {
	return len(s)
}

// Intersect returns the identifiers present in both s and other
func (s IdentifierSet) Intersect(other IdentifierSet) IdentifierSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}

	out := make(IdentifierSet)
	for id := range small {
		if large.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the identifiers in lexicographic order. The result is never nil.
func (s IdentifierSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// TasteSignals holds the normalized identifiers extracted from one profile
type TasteSignals struct {
	Artists IdentifierSet
	Genres  IdentifierSet
	Tracks  IdentifierSet
}

// IsEmpty reports whether no category holds a usable identifier
func (t *TasteSignals) IsEmpty() bool {
	return t.Artists.Len() == 0 && t.Genres.Len() == 0 && t.Tracks.Len() == 0
}
