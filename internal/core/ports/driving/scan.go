package driving

import (
	"context"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// ScanService runs reconnaissance scans against a candidate.
type ScanService interface {
	// Plan lists and selects repositories and sizes the scan against the quota
	// without collecting commits.
	Plan(ctx context.Context, target string) (*ScanPlan, error)

	// Scan runs the full pipeline and returns the final session.
	Scan(ctx context.Context, target string) (*domain.ScanSession, error)

	// Status returns progress for a running scan.
	Status(ctx context.Context, target string) (*ScanStatus, error)

	// Export writes the final report of session in the configured formats
	// and returns the written paths.
	Export(ctx context.Context, session *domain.ScanSession) ([]string, error)
}

// ClassifyService classifies addresses outside of a scan.
type ClassifyService interface {
	Classify(email string) domain.EmailClass
}

// ScanPlan is the output of planning.
type ScanPlan struct {
	Target      string
	Quota       *domain.Quota
	Budget      domain.ScanBudget
	Total       int
	Selected    []domain.Repository
	Partial     bool
	ListOutcome domain.Outcome
}

// ScanStatus represents the current state of a scan.
type ScanStatus struct {
	// Target identifies the candidate.
	Target string

	// Running indicates if the scan is in progress.
	Running bool

	// ReposScanned and ReposSelected report repository progress.
	ReposScanned  int
	ReposSelected int

	// Identities is the number of distinct addresses collected so far.
	Identities int
}
