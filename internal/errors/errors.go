// Package errors consolidates error definitions for the report engine.
//
// This package provides:
//   - Sentinel errors for all failure conditions
//   - Error category checking functions
//   - Error wrapping utilities and contextual constructors
//
// None of these conditions are transient: every failure stems from
// malformed or missing input, so nothing here is retried internally.
package errors

import (
	"errors"
	"fmt"
)

// =============================================================================
// Sentinel errors
// =============================================================================

var (
	// Artifact errors
	ErrMalformedArtifact    = errors.New("malformed artifact")
	ErrUnknownStatisticFile = errors.New("file name does not map to a statistic")
	ErrBadTimestamp         = errors.New("snapshot directory name is not a timestamp")

	// Aggregation errors
	ErrConfigMismatch = errors.New("runs with different configs under one directory")
	ErrNoRunsFound    = errors.New("no runs found")

	// Tree shape errors
	ErrHostCardinality       = errors.New("expected exactly one host directory")
	ErrUnsupportedStackLevel = errors.New("unsupported stack level")

	// Comparison errors
	ErrIncomparableReports = errors.New("report trees are not structurally comparable")

	// Export errors
	ErrWriterClosed = errors.New("writer is closed")
)

// =============================================================================
// Helper functions for error checking
// =============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsArtifact returns true if err stems from an unreadable or
// unexpected-shape input artifact.
func IsArtifact(err error) bool {
	return errors.Is(err, ErrMalformedArtifact) ||
		errors.Is(err, ErrUnknownStatisticFile) ||
		errors.Is(err, ErrBadTimestamp)
}

// IsTreeShape returns true if err stems from a directory hierarchy that
// does not match the expected snapshot layout.
func IsTreeShape(err error) bool {
	return errors.Is(err, ErrHostCardinality) ||
		errors.Is(err, ErrUnsupportedStackLevel) ||
		errors.Is(err, ErrNoRunsFound)
}

// =============================================================================
// Error wrapping utilities
// =============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// =============================================================================
// Error constructors with context
// =============================================================================

// NewMalformedArtifact reports a parse failure with the offending path.
func NewMalformedArtifact(path, reason string) error {
	return fmt.Errorf("%s: %s: %w", path, reason, ErrMalformedArtifact)
}

// NewConfigMismatch reports two conflicting run configs under one
// configuration directory. Both configs are included so the bad run can be
// identified without re-running.
func NewConfigMismatch(dir string, got, want fmt.Stringer) error {
	return fmt.Errorf("%s: got %s, first run had %s: %w", dir, got, want, ErrConfigMismatch)
}

// NewHostCardinality reports a stack-level directory with the wrong number
// of host subdirectories.
func NewHostCardinality(dir string, hosts []string) error {
	return fmt.Errorf("%s: found %d host directories %v: %w", dir, len(hosts), hosts, ErrHostCardinality)
}

// NewIncomparable reports two report trees that cannot be paired up,
// including both sides for diagnosis.
func NewIncomparable(before, after fmt.Stringer) error {
	return fmt.Errorf("before: %s\nafter: %s\n%w", before, after, ErrIncomparableReports)
}
