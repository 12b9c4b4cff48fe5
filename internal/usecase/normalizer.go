package usecase

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tastematch/backend/internal/domain"
)

// Package-level compiled patterns for identifier normalization
var (
	featWordRegex      = regexp.MustCompile(`featuring|feat|ft`)
	hyphenSpacingRegex = regexp.MustCompile(`[\s\x0b\x{85}\p{Z}]+-[\s\x0b\x{85}\p{Z}]*|[\s\x0b\x{85}\p{Z}]*-[\s\x0b\x{85}\p{Z}]+`)
	whitespaceRunRegex = regexp.MustCompile(`[\s\x0b\x{85}\p{Z}]+`)
)

// dashReplacer maps the dash-like code points to an ASCII hyphen
var dashReplacer = strings.NewReplacer(
	"\u2010", "-", // hyphen
	"\u2011", "-", // non-breaking hyphen
	"\u2012", "-", // figure dash
	"\u2013", "-", // en dash
	"\u2014", "-", // em dash
	"\u2212", "-", // minus sign
)

// NormalizeIdentifier canonicalizes a free-text artist, genre or track name so that
// differently formatted mentions of the same thing compare equal:
//
//  1. trim surrounding whitespace
//  2. unify dash-like characters to "-"
//  3. lower-case
//  4. unify "featuring", "feat", "ft" (with any trailing periods) to "feat"
//  5. collapse whitespace around a hyphen to " - "
//  6. collapse remaining whitespace runs to a single space
//
// An empty result means the identifier carries no usable data.
func NormalizeIdentifier(s string) string {
	s = strings.TrimFunc(s, unicode.IsSpace)
	if s == "" {
		return ""
	}

	s = dashReplacer.Replace(s)
	// Casers keep state, so each call gets its own.
	s = cases.Lower(language.Und).String(s)
	s = canonicalizeFeat(s)
	s = hyphenSpacingRegex.ReplaceAllString(s, " - ")
	s = whitespaceRunRegex.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// canonicalizeFeat rewrites whole-word featuring/feat/ft to "feat". The run of
// periods directly after the word is dropped unless a letter or digit follows it,
// so the output never changes on a second pass.
func canonicalizeFeat(s string) string {
	matches := featWordRegex.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start < last || isWordRuneBefore(s, start) || isWordRuneAt(s, end) {
			continue
		}
		dots := end
		for dots < len(s) && s[dots] == '.' {
			dots++
		}
		if !isWordRuneAt(s, dots) {
			end = dots
		}
		b.WriteString(s[last:start])
		b.WriteString("feat")
		last = end
	}
	b.WriteString(s[last:])

	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWordRuneBefore(s string, i int) bool {
	if i <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func isWordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isWordRune(r)
}

// entrySource yields the raw string entries one location of a profile holds.
// Shapes it cannot read contribute nothing.
type entrySource interface {
	entries(profile domain.Profile) []string
}

// listSource reads a list found at path. Plain string entries are always accepted;
// record entries are accepted when recordKey is set and the record holds a string there.
type listSource struct {
	path      []string
	recordKey string
}

func (s listSource) entries(profile domain.Profile) []string {
	items, ok := asList(lookup(profile, s.path))
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok {
			out = append(out, str)
			continue
		}
		if s.recordKey == "" {
			continue
		}
		record, ok := asStringMap(item)
		if !ok {
			continue
		}
		if name, ok := record[s.recordKey].(string); ok {
			out = append(out, name)
		}
	}
	return out
}

// mapKeySource reads the keys of a mapping found at path; values are ignored
type mapKeySource struct {
	path []string
}

func (s mapKeySource) entries(profile domain.Profile) []string {
	m, ok := asStringMap(lookup(profile, s.path))
	if !ok {
		return nil
	}

	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Source lists per category. Every source is read and the results are unioned;
// older profile shapes stay readable next to the current one.
var (
	artistSources = []entrySource{
		listSource{path: []string{"sample", "top_artists"}, recordKey: "name"},
		listSource{path: []string{"favorite_artists"}, recordKey: "name"},
		listSource{path: []string{"top_artists"}, recordKey: "name"},
		listSource{path: []string{"artists"}, recordKey: "name"},
		listSource{path: []string{"top_artists_preview"}, recordKey: "name"},
	}

	trackSources = []entrySource{
		listSource{path: []string{"sample", "top_tracks"}, recordKey: "name"},
		listSource{path: []string{"top_tracks"}, recordKey: "name"},
		listSource{path: []string{"tracks"}, recordKey: "name"},
	}

	genreSources = []entrySource{
		listSource{path: []string{"top_genres"}, recordKey: "genre"},
		listSource{path: []string{"genres"}},
		listSource{path: []string{"top_genres_preview"}},
		mapKeySource{path: []string{"genre_weights"}},
	}
)

// Normalizer extracts normalized artist, genre and track identifiers from profiles.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	artistSources []entrySource
	genreSources  []entrySource
	trackSources  []entrySource
}

// NewNormalizer creates a normalizer reading every known profile shape
func NewNormalizer() *Normalizer {
	return &Normalizer{
		artistSources: artistSources,
		genreSources:  genreSources,
		trackSources:  trackSources,
	}
}

// Extract returns the normalized identifier sets of a profile.
// A nil or unrecognizable profile yields empty sets.
func (n *Normalizer) Extract(profile domain.Profile) *domain.TasteSignals {
	return &domain.TasteSignals{
		Artists: collect(profile, n.artistSources),
		Genres:  collect(profile, n.genreSources),
		Tracks:  collect(profile, n.trackSources),
	}
}

// ExtractAny validates that v is a profile mapping before extracting from it
func (n *Normalizer) ExtractAny(v any) (*domain.TasteSignals, error) {
	profile, err := domain.ProfileFromAny(v)
	if err != nil {
		return nil, err
	}
	return n.Extract(profile), nil
}

func collect(profile domain.Profile, sources []entrySource) domain.IdentifierSet {
	set := make(domain.IdentifierSet)
	for _, src := range sources {
		for _, entry := range src.entries(profile) {
			set.Add(NormalizeIdentifier(entry))
		}
	}
	return set
}

// lookup walks nested mappings along path, returning nil when any step is missing
func lookup(profile domain.Profile, path []string) any {
	var cur any = map[string]any(profile)
	for _, key := range path {
		m, ok := asStringMap(cur)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

// asStringMap views v as a mapping with string keys
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return m, m != nil
	case domain.Profile:
		return m, m != nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asList views v as a sequence. Strings are not sequences.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case nil:
		return nil, false
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
