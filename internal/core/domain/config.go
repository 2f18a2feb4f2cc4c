package domain

import "fmt"

// ExportFormat is a final report format.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatHTML ExportFormat = "html"
	FormatAll  ExportFormat = "all"
)

// ParseExportFormat validates a format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case FormatJSON, FormatHTML, FormatAll:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Expand returns the concrete formats a format stands for.
func (f ExportFormat) Expand() []ExportFormat {
	if f == FormatAll {
		return []ExportFormat{FormatJSON, FormatHTML}
	}
	return []ExportFormat{f}
}

// Scan configuration limits.
const (
	DefaultConcurrency       = 3
	MaxConcurrency           = 10
	DefaultAvgCommitsPerRepo = 50
	DefaultNetworkLimit      = 20
)

// ScanConfig holds the options recognised by the scanner.
// Zero values for MaxAgeMonths and MaxRepoCount mean "no limit".
type ScanConfig struct {
	IncludeForks    bool
	IncludeArchived bool
	MaxAgeMonths    int
	MaxRepoCount    int
	MinStars        int

	// Concurrency bounds batched lookups (1..10).
	Concurrency int

	SkipNoreply    bool
	SkipDisposable bool

	// SmartMode caps the repository selection to what the quota allows.
	SmartMode bool

	// DeepMode adds events, READMEs, contributors, gist contents, secret
	// analysis and the follower network.
	DeepMode bool

	// NetworkLimit caps follower/following profile lookups in deep mode.
	NetworkLimit int

	// AvgCommitsPerRepo is the planner's estimate of commits per repository.
	AvgCommitsPerRepo int

	OutputDir string
	Formats   []ExportFormat
}

// DefaultScanConfig returns the default configuration.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Concurrency:       DefaultConcurrency,
		SkipNoreply:       true,
		NetworkLimit:      DefaultNetworkLimit,
		AvgCommitsPerRepo: DefaultAvgCommitsPerRepo,
		OutputDir:         ".",
		Formats:           []ExportFormat{FormatJSON},
	}
}

// Validate checks the configuration for out-of-range values.
func (c ScanConfig) Validate() error {
	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return fmt.Errorf("%w: concurrency must be between 1 and %d, got %d",
			ErrInvalidInput, MaxConcurrency, c.Concurrency)
	}
	if c.MaxAgeMonths < 0 {
		return fmt.Errorf("%w: max age must not be negative", ErrInvalidInput)
	}
	if c.MaxRepoCount < 0 {
		return fmt.Errorf("%w: max repository count must not be negative", ErrInvalidInput)
	}
	if c.MinStars < 0 {
		return fmt.Errorf("%w: min stars must not be negative", ErrInvalidInput)
	}
	if c.NetworkLimit < 0 {
		return fmt.Errorf("%w: network limit must not be negative", ErrInvalidInput)
	}
	if c.AvgCommitsPerRepo < 0 {
		return fmt.Errorf("%w: average commits must not be negative", ErrInvalidInput)
	}
	for _, f := range c.Formats {
		if _, err := ParseExportFormat(string(f)); err != nil {
			return err
		}
	}
	return nil
}
