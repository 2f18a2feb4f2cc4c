// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline is built from small parts that are tested on their own:
// Collect walks numbered pages, Batch runs windowed concurrent lookups,
// Scorer orders repositories, PlanStrategy sizes a scan against the quota,
// and Classify and Merge build the identity aggregate. Scanner composes them.
package services
