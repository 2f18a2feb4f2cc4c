package services

import (
	"fmt"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// SafetyMargin is the number of calls kept in reserve when sizing a plan.
const SafetyMargin = 10

// PlanOptions describes which calls a scan will make.
type PlanOptions struct {
	IncludeProfile bool
	IncludeOrgs    bool
	IncludeKeys    bool
	IncludeGists   bool

	// AvgCommitsPerRepo estimates commit volume; true counts are unknown
	// until fetched. Values <= 0 use domain.DefaultAvgCommitsPerRepo.
	AvgCommitsPerRepo int

	// ExtraCallsPerRepo adds per-repository calls beyond commit pagination,
	// such as README and contributor lookups.
	ExtraCallsPerRepo int
}

// DefaultPlanOptions returns options for a standard scan: profile,
// organizations and keys, no gists, 50 commits per repository.
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		IncludeProfile:    true,
		IncludeOrgs:       true,
		IncludeKeys:       true,
		AvgCommitsPerRepo: domain.DefaultAvgCommitsPerRepo,
	}
}

// PlanOptionsFromConfig derives plan options from a scan configuration.
// Deep mode adds the gist listing, the event feed, and a README plus a
// contributor page per repository.
func PlanOptionsFromConfig(cfg domain.ScanConfig) PlanOptions {
	opts := DefaultPlanOptions()
	if cfg.AvgCommitsPerRepo > 0 {
		opts.AvgCommitsPerRepo = cfg.AvgCommitsPerRepo
	}
	if cfg.DeepMode {
		opts.IncludeGists = true
		opts.ExtraCallsPerRepo = 2
	}
	return opts
}

// perRepoCost is the number of calls a single repository is expected to cost.
func (o PlanOptions) perRepoCost() int {
	avg := o.AvgCommitsPerRepo
	if avg <= 0 {
		avg = domain.DefaultAvgCommitsPerRepo
	}
	return ceilDiv(avg, domain.PageSize) + max(o.ExtraCallsPerRepo, 0)
}

// EstimateCalls returns the number of API calls a scan of repoCount
// repositories is expected to need.
func EstimateCalls(repoCount int, opts PlanOptions) int {
	repoCount = max(repoCount, 0)

	calls := 0
	for _, on := range []bool{opts.IncludeProfile, opts.IncludeOrgs, opts.IncludeKeys, opts.IncludeGists} {
		if on {
			calls++
		}
	}
	calls += ceilDiv(repoCount, domain.PageSize)
	calls += repoCount * opts.perRepoCost()
	return calls
}

// PlanStrategy compares the estimate against the remaining quota.
// When the plan does not fit it computes the largest safe repository count
// and returns ordered recommendations. It never changes collection itself.
func PlanStrategy(repoCount, remaining int, opts PlanOptions) domain.ScanBudget {
	budget := domain.ScanBudget{
		RepoCount:      repoCount,
		EstimatedCalls: EstimateCalls(repoCount, opts),
		Remaining:      remaining,
		SafeRepoCount:  repoCount,
	}
	budget.CanComplete = budget.EstimatedCalls <= remaining
	if budget.CanComplete {
		return budget
	}

	safe := max((remaining-SafetyMargin)/opts.perRepoCost(), 0)
	budget.SafeRepoCount = safe
	budget.Recommendations = []domain.Recommendation{
		{
			Action:  domain.ActionLimitRepos,
			Message: fmt.Sprintf("limit the scan to %d repositories (--max-repos %d)", safe, safe),
			Value:   safe,
		},
		{
			Action:  domain.ActionUseToken,
			Message: "use an authenticated token for a higher rate limit (5000 requests/hour)",
		},
		{
			Action:  domain.ActionExcludeForks,
			Message: "exclude forked repositories to reduce the number of calls",
		},
	}
	return budget
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
