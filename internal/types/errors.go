package types

import "errors"

// Error taxonomy shared by the pipeline and the presentation layer.
// Callers wrap these with context and test with errors.Is.
var (
	// ErrSourceUnavailable means a branch or tab could not be fetched.
	// The unit is skipped for this run.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEmptyTab means a tab has too few rows to hold a header and data.
	ErrEmptyTab = errors.New("tab has too few rows")

	// ErrHeaderNotFound means no header row could be located in a tab.
	ErrHeaderNotFound = errors.New("header row not found")

	// ErrMissingSnapshot means the master snapshot file does not exist.
	ErrMissingSnapshot = errors.New("master snapshot not found")

	// ErrInvalidSnapshot means the snapshot exists but its header does not
	// match the canonical field set.
	ErrInvalidSnapshot = errors.New("master snapshot has an unexpected header")
)
