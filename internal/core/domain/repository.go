package domain

import "time"

// Repository describes a repository owned by the candidate.
// Descriptors are created once per listing page and are immutable afterwards,
// except for Priority which the scorer stamps.
type Repository struct {
	// Name is unique per owner.
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    string `json:"owner"`

	// Description is empty when the repository has none.
	Description string     `json:"description,omitempty"`
	IsFork      bool       `json:"is_fork"`
	IsArchived  bool       `json:"is_archived"`
	PushedAt    *time.Time `json:"pushed_at,omitempty"`
	StarCount   int        `json:"star_count"`
	HasIssues   bool       `json:"has_issues"`

	// Extended metadata, populated when Detailed is true.
	Detailed        bool   `json:"detailed,omitempty"`
	Language        string `json:"language,omitempty"`
	Size            int    `json:"size,omitempty"`
	ForksCount      int    `json:"forks_count,omitempty"`
	OpenIssuesCount int    `json:"open_issues_count,omitempty"`
	WatchersCount   int    `json:"watchers_count,omitempty"`
	DefaultBranch   string `json:"default_branch,omitempty"`
	HTMLURL         string `json:"html_url,omitempty"`

	Priority float64 `json:"priority"`
}

// HasDescription reports whether the repository carries a non-empty description.
func (r Repository) HasDescription() bool {
	return r.Description != ""
}
