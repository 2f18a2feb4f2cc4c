package domain

import "time"

// Profile is the public profile of a platform account.
type Profile struct {
	Login           string    `json:"login"`
	Name            string    `json:"name,omitempty"`
	Type            string    `json:"type,omitempty"`
	Company         string    `json:"company,omitempty"`
	Blog            string    `json:"blog,omitempty"`
	Location        string    `json:"location,omitempty"`
	Email           string    `json:"email,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	TwitterUsername string    `json:"twitter_username,omitempty"`
	PublicRepos     int       `json:"public_repos"`
	PublicGists     int       `json:"public_gists"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	HTMLURL         string    `json:"html_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Organization is an organization the candidate publicly belongs to.
type Organization struct {
	Login       string `json:"login"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// SSHKey is a public SSH key attached to the account.
type SSHKey struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// GistFile is one file of a gist. Content is only populated by a detail fetch.
type GistFile struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
	Size     int    `json:"size"`
	Content  string `json:"-"`
}

// Gist is a public gist.
type Gist struct {
	ID          string     `json:"id"`
	Description string     `json:"description,omitempty"`
	Public      bool       `json:"public"`
	HTMLURL     string     `json:"html_url,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	Files       []GistFile `json:"files"`
}

// Commit is a commit from a repository's history.
type Commit struct {
	SHA            string    `json:"sha"`
	Message        string    `json:"message"`
	AuthorName     string    `json:"author_name"`
	AuthorEmail    string    `json:"author_email"`
	CommitterName  string    `json:"committer_name"`
	CommitterEmail string    `json:"committer_email"`
	Date           time.Time `json:"date"`

	// AuthorLogin is the linked platform account; empty when the commit is
	// not associated with any account.
	AuthorLogin string `json:"author_login,omitempty"`
}

// HasAuthorIdentity reports whether the commit carries an author signature.
func (c Commit) HasAuthorIdentity() bool {
	return c.AuthorEmail != ""
}

// EventCommit is a commit embedded in a push event payload.
type EventCommit struct {
	SHA     string `json:"sha"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Event is a public activity event.
type Event struct {
	ID         string        `json:"id"`
	Type       string        `json:"type"`
	Repository string        `json:"repository"`
	CreatedAt  time.Time     `json:"created_at"`
	Commits    []EventCommit `json:"commits,omitempty"`
}

// Contributor is a repository contributor. Anonymous contributors carry a
// name and email instead of a login.
type Contributor struct {
	Login         string `json:"login,omitempty"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Contributions int    `json:"contributions"`
}

// Key identifies the contributor within one listing.
func (c Contributor) Key() string {
	if c.Login != "" {
		return c.Login
	}
	return c.Email + "\x00" + c.Name
}

// Account is a login reference, e.g. a follower.
type Account struct {
	Login string `json:"login"`
	Type  string `json:"type,omitempty"`
}

// Quota is the platform's rate-limit state.
type Quota struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}
