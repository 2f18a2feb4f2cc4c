package driven

import (
	"context"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
)

// SnapshotWriter persists intermediate session state so a scan interrupted
// at any point leaves a usable artifact behind. Save must only be called
// with a snapshot that is not mutated afterwards.
type SnapshotWriter interface {
	Save(ctx context.Context, snapshot *domain.ScanSession, identifier, platform, outputDir string) error
}

// ReportExporter writes the final report in one or more formats.
type ReportExporter interface {
	// Export writes report in format and returns the written file paths.
	Export(ctx context.Context, report domain.Report, format domain.ExportFormat, identifier, platform string) ([]string, error)
}
