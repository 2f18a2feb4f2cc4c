package services

import (
	"math"
	"slices"
	"time"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// Priority weights. Fixed configuration, not learned.
const (
	WeightRecency     = 30.0
	WeightDescription = 10.0
	WeightNonFork     = 20.0
	WeightNonArchived = 10.0
	WeightHasIssues   = 5.0
	WeightStars       = 15.0

	// StarScale multiplies log10(stars+1); the product is capped at WeightStars.
	StarScale = 5.0
)

// Recency multipliers applied to WeightRecency.
const (
	recencyMonth    = 1.0
	recencyHalfYear = 0.7
	recencyYear     = 0.3
)

// Scorer assigns repositories a desirability score.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a scorer using the wall clock.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt creates a scorer with a fixed reference time.
func NewScorerAt(now time.Time) *Scorer {
	return &Scorer{now: func() time.Time { return now }}
}

// Score returns the priority of repo. Higher is better.
func (s *Scorer) Score(repo domain.Repository) float64 {
	score := WeightRecency * s.recency(repo.PushedAt)

	if repo.HasDescription() {
		score += WeightDescription
	}
	if !repo.IsFork {
		score += WeightNonFork
	}
	if !repo.IsArchived {
		score += WeightNonArchived
	}
	if repo.HasIssues {
		score += WeightHasIssues
	}
	stars := max(repo.StarCount, 0)
	score += math.Min(math.Log10(float64(stars)+1)*StarScale, WeightStars)

	return score
}

func (s *Scorer) recency(pushedAt *time.Time) float64 {
	if pushedAt == nil {
		return 0
	}
	now := s.now()
	switch {
	case pushedAt.After(now.AddDate(0, -1, 0)):
		return recencyMonth
	case pushedAt.After(now.AddDate(0, -6, 0)):
		return recencyHalfYear
	case pushedAt.After(now.AddDate(0, -12, 0)):
		return recencyYear
	default:
		return 0
	}
}

// SortByPriority returns a copy of repos with Priority set, sorted by
// descending score. Ties keep their original relative order.
func (s *Scorer) SortByPriority(repos []domain.Repository) []domain.Repository {
	out := slices.Clone(repos)
	for i := range out {
		out[i].Priority = s.Score(out[i])
	}
	slices.SortStableFunc(out, func(a, b domain.Repository) int {
		switch {
		case a.Priority > b.Priority:
			return -1
		case a.Priority < b.Priority:
			return 1
		default:
			return 0
		}
	})
	return out
}

// FilterOptions are the hard exclusion predicates and the selection cap.
// Zero MaxAgeMonths and MaxCount mean no limit.
type FilterOptions struct {
	IncludeForks    bool
	IncludeArchived bool
	MinStars        int
	MaxAgeMonths    int
	MaxCount        int
}

// FilterOptionsFromConfig derives filter options from a scan configuration.
func FilterOptionsFromConfig(cfg domain.ScanConfig) FilterOptions {
	return FilterOptions{
		IncludeForks:    cfg.IncludeForks,
		IncludeArchived: cfg.IncludeArchived,
		MinStars:        cfg.MinStars,
		MaxAgeMonths:    cfg.MaxAgeMonths,
		MaxCount:        cfg.MaxRepoCount,
	}
}

// FilterRepos applies the exclusion predicates, sorts the survivors by
// priority and truncates to MaxCount. Truncation happens after sorting so a
// capped selection always holds the highest-scored repositories.
func (s *Scorer) FilterRepos(repos []domain.Repository, opts FilterOptions) []domain.Repository {
	var cutoff time.Time
	if opts.MaxAgeMonths > 0 {
		cutoff = s.now().AddDate(0, -opts.MaxAgeMonths, 0)
	}

	kept := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		if r.IsFork && !opts.IncludeForks {
			continue
		}
		if r.IsArchived && !opts.IncludeArchived {
			continue
		}
		if r.StarCount < opts.MinStars {
			continue
		}
		if !cutoff.IsZero() && (r.PushedAt == nil || r.PushedAt.Before(cutoff)) {
			continue
		}
		kept = append(kept, r)
	}

	sorted := s.SortByPriority(kept)
	if opts.MaxCount > 0 && len(sorted) > opts.MaxCount {
		sorted = sorted[:opts.MaxCount]
	}
	return sorted
}
