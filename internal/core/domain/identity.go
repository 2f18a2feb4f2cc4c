package domain

import (
	"encoding/json"
	"slices"
	"strings"
)

// Classification is the category assigned to an email address.
type Classification string

const (
	ClassPersonal   Classification = "personal"
	ClassWork       Classification = "work"
	ClassNoreply    Classification = "noreply"
	ClassDisposable Classification = "disposable"
)

// IdentitySource is the provenance tag of an observation.
type IdentitySource string

const (
	SourceCommit      IdentitySource = "commit"
	SourceEvent       IdentitySource = "event"
	SourceReadme      IdentitySource = "readme"
	SourceGist        IdentitySource = "gist"
	SourceContributor IdentitySource = "contributor"
)

// AllIdentitySources returns every provenance tag.
func AllIdentitySources() []IdentitySource {
	return []IdentitySource{SourceCommit, SourceEvent, SourceReadme, SourceGist, SourceContributor}
}

// StringSet is an unordered set of strings. It marshals as a sorted array.
type StringSet map[string]struct{}

// NewStringSet creates a set from the given values.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v. Empty strings are ignored.
func (s StringSet) Add(v string) {
	if v == "" {
		return
	}
	s[v] = struct{}{}
}

// Has reports whether v is in the set.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (s StringSet) Clone() StringSet {
	out := make(StringSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}

// Observation is a single sighting of an email address.
type Observation struct {
	Email      string
	Name       string
	Source     IdentitySource
	Repository string
}

// EmailClass is the result of classifying one address.
type EmailClass struct {
	IsValid           bool
	IsNoreply         bool
	IsDisposable      bool
	Domain            string
	RegistrableDomain string
	Classification    Classification
}

// EmailIdentity aggregates all evidence observed for one address.
type EmailIdentity struct {
	Email          string         `json:"email"`
	Domain         string         `json:"domain"`
	Classification Classification `json:"classification"`
	IsDisposable   bool           `json:"is_disposable"`
	Names          StringSet      `json:"names"`
	Sources        StringSet      `json:"sources"`
	Repositories   StringSet      `json:"repositories"`
}

// Clone returns a deep copy.
func (e *EmailIdentity) Clone() *EmailIdentity {
	out := *e
	out.Names = e.Names.Clone()
	out.Sources = e.Sources.Clone()
	out.Repositories = e.Repositories.Clone()
	return &out
}

// HasSource reports whether the identity was observed from src.
func (e *EmailIdentity) HasSource(src IdentitySource) bool {
	return e.Sources.Has(string(src))
}

// IdentityMap is the running aggregate of identities for a scan.
// It keeps every valid observation; exclusion is applied only when a report
// is projected from it.
type IdentityMap struct {
	entries map[string]*EmailIdentity
}

// NewIdentityMap creates an empty aggregate.
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{entries: make(map[string]*EmailIdentity)}
}

// IdentityKey returns the aggregate key for an address: the local part as
// written plus the lower-cased domain. The address must contain exactly one @.
func IdentityKey(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	return local + "@" + strings.ToLower(domain)
}

// Get returns the identity for email, if present.
func (m *IdentityMap) Get(email string) (*EmailIdentity, bool) {
	e, ok := m.entries[IdentityKey(email)]
	return e, ok
}

// Put stores an identity under its key, replacing any previous entry.
func (m *IdentityMap) Put(e *EmailIdentity) {
	if m.entries == nil {
		m.entries = make(map[string]*EmailIdentity)
	}
	m.entries[IdentityKey(e.Email)] = e
}

// Len returns the number of identities.
func (m *IdentityMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// All returns the identities ordered by email.
func (m *IdentityMap) All() []*EmailIdentity {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]*EmailIdentity, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.entries[k])
	}
	return out
}

// Clone returns a deep copy of the aggregate.
func (m *IdentityMap) Clone() *IdentityMap {
	out := NewIdentityMap()
	if m == nil {
		return out
	}
	for k, e := range m.entries {
		out.entries[k] = e.Clone()
	}
	return out
}

// MarshalJSON encodes the aggregate as an array ordered by email.
func (m *IdentityMap) MarshalJSON() ([]byte, error) {
	all := m.All()
	if all == nil {
		all = []*EmailIdentity{}
	}
	return json.Marshal(all)
}

// UnmarshalJSON decodes an array produced by MarshalJSON.
func (m *IdentityMap) UnmarshalJSON(data []byte) error {
	var list []*EmailIdentity
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	m.entries = make(map[string]*EmailIdentity, len(list))
	for _, e := range list {
		m.Put(e)
	}
	return nil
}

// SensitiveMatch is one pattern hit found by text analysis.
type SensitiveMatch struct {
	Pattern string `json:"pattern"`
	Match   string `json:"match"`
}

// SensitiveFinding records where matches were found during a scan.
type SensitiveFinding struct {
	Repository string           `json:"repository"`
	Location   string           `json:"location"`
	Matches    []SensitiveMatch `json:"matches"`
}
