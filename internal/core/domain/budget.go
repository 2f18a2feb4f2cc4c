package domain

// RecommendationAction names an advisory action produced by the planner.
type RecommendationAction string

const (
	ActionLimitRepos   RecommendationAction = "limit_repos"
	ActionUseToken     RecommendationAction = "use_token"
	ActionExcludeForks RecommendationAction = "exclude_forks"
)

// Recommendation is one advisory degradation step.
type Recommendation struct {
	Action  RecommendationAction `json:"action"`
	Message string               `json:"message"`

	// Value carries the action's parameter, e.g. the safe repository count.
	Value int `json:"value,omitempty"`
}

// ScanBudget compares the estimated cost of a scan with the remaining quota.
// It is derived and stateless.
type ScanBudget struct {
	RepoCount       int              `json:"repo_count"`
	EstimatedCalls  int              `json:"estimated_calls"`
	Remaining       int              `json:"remaining"`
	CanComplete     bool             `json:"can_complete"`
	SafeRepoCount   int              `json:"safe_repo_count"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// Recommendation returns the first recommendation with the given action.
func (b ScanBudget) Recommendation(action RecommendationAction) (Recommendation, bool) {
	for _, r := range b.Recommendations {
		if r.Action == action {
			return r, true
		}
	}
	return Recommendation{}, false
}
