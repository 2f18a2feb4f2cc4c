// Package file writes scan artifacts to the local filesystem.
//
// Writer persists the in-progress session after every scan step as
// <platform>_<identifier>.json in the output directory. Exporter renders
// the final report as <platform>_<identifier>_report.{json,html}.
// Every file is written to a temporary sibling first and renamed into place,
// so readers never observe a half-written artifact.
package file
