// Package domain defines the core entities for recon.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Repository: a repository descriptor used for scoring and filtering
//   - PageResult / Collection: the tagged result of one page fetch and of a
//     whole paginated walk
//   - EmailIdentity / IdentityMap: aggregated contact identities
//   - ScanBudget: the API-budget plan for a scan
//   - ScanSession: the mutable accumulator for one candidate
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
