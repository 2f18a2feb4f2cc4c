// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PlatformClient: typed, paginated access to the source-control platform
//   - SnapshotWriter: incremental session snapshots
//   - ReportExporter: final JSON/HTML reports
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ResponseCache: conditional-request cache behind the platform transport
//   - ConfigStore: persisted CLI defaults
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
