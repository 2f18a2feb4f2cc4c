package domain

import (
	"slices"
	"time"
)

// PlatformGitHub is the platform tag used in artifact names.
const PlatformGitHub = "github"

// Network is the candidate's follower graph.
type Network struct {
	Followers []Account `json:"followers,omitempty"`
	Following []Account `json:"following,omitempty"`
	Profiles  []Profile `json:"profiles,omitempty"`
	Starred   []string  `json:"starred,omitempty"`
}

// ScanProgress tracks counters for the running scan.
type ScanProgress struct {
	ReposTotal     int      `json:"repos_total"`
	ReposSelected  int      `json:"repos_selected"`
	ReposScanned   int      `json:"repos_scanned"`
	CommitsScanned int      `json:"commits_scanned"`
	PagesFetched   int      `json:"pages_fetched"`
	RateLimited    bool     `json:"rate_limited"`
	Warnings       []string `json:"warnings,omitempty"`
}

// ScanSession is the accumulator for one candidate. It is owned by the
// scanner goroutine; writers receive copies from Snapshot.
type ScanSession struct {
	ID          string     `json:"id"`
	Target      string     `json:"target"`
	Platform    string     `json:"platform"`
	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Profile       *Profile       `json:"profile,omitempty"`
	Organizations []Organization `json:"organizations,omitempty"`
	Keys          []SSHKey       `json:"keys,omitempty"`
	Gists         []Gist         `json:"gists,omitempty"`
	Network       Network        `json:"network"`
	Repositories  []Repository   `json:"repositories,omitempty"`

	Identities *IdentityMap       `json:"identities"`
	Findings   []SensitiveFinding `json:"findings,omitempty"`
	Progress   ScanProgress       `json:"progress"`
	Budget     *ScanBudget        `json:"budget,omitempty"`
}

// NewScanSession creates an empty session for target.
func NewScanSession(id, target, platform string, now time.Time) *ScanSession {
	return &ScanSession{
		ID:         id,
		Target:     target,
		Platform:   platform,
		StartedAt:  now,
		UpdatedAt:  now,
		Identities: NewIdentityMap(),
	}
}

// Warn records a non-fatal warning.
func (s *ScanSession) Warn(msg string) {
	s.Progress.Warnings = append(s.Progress.Warnings, msg)
}

// Completed reports whether the scan finished.
func (s *ScanSession) Completed() bool {
	return s.CompletedAt != nil
}

// Snapshot returns a deep copy of the session.
func (s *ScanSession) Snapshot() *ScanSession {
	out := *s
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	if s.Budget != nil {
		b := *s.Budget
		b.Recommendations = slices.Clone(s.Budget.Recommendations)
		out.Budget = &b
	}
	out.Organizations = slices.Clone(s.Organizations)
	out.Keys = slices.Clone(s.Keys)
	out.Gists = make([]Gist, len(s.Gists))
	for i, g := range s.Gists {
		g.Files = slices.Clone(g.Files)
		out.Gists[i] = g
	}
	out.Network = Network{
		Followers: slices.Clone(s.Network.Followers),
		Following: slices.Clone(s.Network.Following),
		Profiles:  slices.Clone(s.Network.Profiles),
		Starred:   slices.Clone(s.Network.Starred),
	}
	out.Repositories = make([]Repository, len(s.Repositories))
	for i, r := range s.Repositories {
		if r.PushedAt != nil {
			t := *r.PushedAt
			r.PushedAt = &t
		}
		out.Repositories[i] = r
	}
	out.Identities = s.Identities.Clone()
	out.Findings = make([]SensitiveFinding, len(s.Findings))
	for i, f := range s.Findings {
		f.Matches = slices.Clone(f.Matches)
		out.Findings[i] = f
	}
	out.Progress.Warnings = slices.Clone(s.Progress.Warnings)
	return &out
}

// Report is the externally visible projection handed to exporters.
type Report struct {
	Session    *ScanSession     `json:"session"`
	Identities []*EmailIdentity `json:"emails"`

	// Excluded counts identities hidden by the report filters.
	Excluded    int       `json:"excluded"`
	GeneratedAt time.Time `json:"generated_at"`
}
