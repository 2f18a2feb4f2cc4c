package services

import (
	"regexp"
	"slices"
	"strings"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// Merge folds one observation into agg. It creates the identity on first
// sight and unions names, sources and repositories afterwards. Invalid
// addresses are dropped; Merge reports whether the observation was kept.
func Merge(agg *domain.IdentityMap, obs domain.Observation) bool {
	email := strings.TrimSpace(obs.Email)
	class := Classify(email)
	if !class.IsValid {
		return false
	}

	identity, ok := agg.Get(email)
	if !ok {
		identity = &domain.EmailIdentity{
			Email:          email,
			Domain:         class.Domain,
			Classification: class.Classification,
			IsDisposable:   class.IsDisposable,
			Names:          domain.NewStringSet(),
			Sources:        domain.NewStringSet(),
			Repositories:   domain.NewStringSet(),
		}
		agg.Put(identity)
	}

	identity.Names.Add(strings.TrimSpace(obs.Name))
	identity.Sources.Add(string(obs.Source))
	identity.Repositories.Add(obs.Repository)
	return true
}

// MergeAll folds every observation into agg and returns how many were kept.
func MergeAll(agg *domain.IdentityMap, observations []domain.Observation) int {
	kept := 0
	for _, obs := range observations {
		if Merge(agg, obs) {
			kept++
		}
	}
	return kept
}

// ReportOptions are view filters applied when projecting the aggregate.
type ReportOptions struct {
	ExcludeNoreply    bool
	ExcludeDisposable bool
}

// BuildReport projects agg into the externally visible list ordered by
// email. Filters are applied to the projection only; agg is never modified,
// so the same aggregate can be projected again with different options.
// The second return value is the number of identities filtered out.
func BuildReport(agg *domain.IdentityMap, opts ReportOptions) ([]*domain.EmailIdentity, int) {
	all := agg.All()
	out := make([]*domain.EmailIdentity, 0, len(all))
	excluded := 0
	for _, e := range all {
		if opts.ExcludeNoreply && e.Classification == domain.ClassNoreply {
			excluded++
			continue
		}
		if opts.ExcludeDisposable && e.IsDisposable {
			excluded++
			continue
		}
		out = append(out, e.Clone())
	}
	return out, excluded
}

// ClassificationCounts tallies identities per classification.
func ClassificationCounts(identities []*domain.EmailIdentity) map[domain.Classification]int {
	counts := make(map[domain.Classification]int)
	for _, e := range identities {
		counts[e.Classification]++
	}
	return counts
}

// sensitivePattern is one entry of the secret-detection table.
type sensitivePattern struct {
	name string
	re   *regexp.Regexp
}

// sensitivePatterns is a detection aid only; false negatives are expected.
var sensitivePatterns = []sensitivePattern{
	{"aws_access_key", regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{"github_token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{"github_pat", regexp.MustCompile(`\bgithub_pat_[A-Za-z0-9_]{22,}\b`)},
	{"slack_token", regexp.MustCompile(`\bxox[abposr]-[A-Za-z0-9-]{10,}`)},
	{"google_api_key", regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`)},
	{"stripe_key", regexp.MustCompile(`\b(sk|rk)_live_[0-9A-Za-z]{16,}\b`)},
	{"private_key", regexp.MustCompile(`-----BEGIN ((RSA|EC|DSA|OPENSSH|PGP) )?PRIVATE KEY( BLOCK)?-----`)},
	{"jwt", regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`)},
	{"password_assignment", regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[:=]\s*["']?[^\s"']{4,}`)},
	{"secret_assignment", regexp.MustCompile(`(?i)\b(secret|client_secret|secret_key)\s*[:=]\s*["']?[^\s"']{4,}`)},
	{"api_key_assignment", regexp.MustCompile(`(?i)\b(api[_-]?key|apikey|access[_-]?token|auth[_-]?token)\s*[:=]\s*["']?[^\s"']{8,}`)},
	{"connection_string", regexp.MustCompile(`\b(postgres|postgresql|mysql|mongodb(\+srv)?|redis|amqp)://[^\s:/@]+:[^\s@/]+@[^\s/]+`)},
}

// AnalyzeText applies the sensitive-data pattern table to text and returns
// every pattern that matched together with its first match, in table order.
func AnalyzeText(text string) []domain.SensitiveMatch {
	if text == "" {
		return nil
	}
	var matches []domain.SensitiveMatch
	for _, p := range sensitivePatterns {
		if m := p.re.FindString(text); m != "" {
			matches = append(matches, domain.SensitiveMatch{Pattern: p.name, Match: m})
		}
	}
	return matches
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// ExtractEmails returns the distinct valid addresses found in text, in order
// of first appearance.
func ExtractEmails(text string) []string {
	var out []string
	for _, m := range emailPattern.FindAllString(text, -1) {
		m = strings.TrimRight(m, ".")
		if !Classify(m).IsValid {
			continue
		}
		key := domain.IdentityKey(m)
		if slices.ContainsFunc(out, func(s string) bool { return domain.IdentityKey(s) == key }) {
			continue
		}
		out = append(out, m)
	}
	return out
}
