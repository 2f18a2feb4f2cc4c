package file

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/recon-cli/internal/core/domain"
	"github.com/custodia-labs/recon-cli/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.SnapshotWriter = (*Writer)(nil)

// Writer persists session snapshots as indented JSON.
type Writer struct{}

// NewWriter creates a snapshot writer.
func NewWriter() *Writer {
	return &Writer{}
}

// SnapshotPath returns the snapshot file for identifier.
func SnapshotPath(outputDir, platform, identifier string) string {
	return filepath.Join(outputDir, baseName(platform, identifier)+".json")
}

// Save writes snapshot, replacing the previous one. The write is local and
// short, so it also completes after ctx is cancelled.
func (w *Writer) Save(_ context.Context, snapshot *domain.ScanSession, identifier, platform, outputDir string) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", domain.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return writeAtomic(SnapshotPath(outputDir, platform, identifier), append(data, '\n'))
}
