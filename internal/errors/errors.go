package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// IndexMissing indicates the SCIP index file does not exist
	IndexMissing ErrorCode = "INDEX_MISSING"
	// IndexUnreadable indicates the index exists but could not be read
	IndexUnreadable ErrorCode = "INDEX_UNREADABLE"
	// IndexCorrupt indicates the index content failed to decode
	IndexCorrupt ErrorCode = "INDEX_CORRUPT"
	// EnrichmentFailed indicates a per-symbol lookup failed (recoverable)
	EnrichmentFailed ErrorCode = "ENRICHMENT_FAILED"
	// FormatInvalid indicates output violates the field-count or logic grammar
	FormatInvalid ErrorCode = "FORMAT_INVALID"
	// ReferentialIntegrity indicates edges pointing at unknown definitions
	ReferentialIntegrity ErrorCode = "REFERENTIAL_INTEGRITY"
	// ConfigConflict indicates contradictory configuration values
	ConfigConflict ErrorCode = "CONFIG_CONFLICT"
	// ConfigInvalid indicates an unknown or malformed configuration value
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// OutputFailed indicates the rendered output could not be written
	OutputFailed ErrorCode = "OUTPUT_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// EditConfig suggests changing the configuration file
	EditConfig FixActionType = "edit-config"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// YcgError represents a ycg error with code, message, and suggestions
type YcgError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// New creates a YcgError with the default suggested fixes for its code.
func New(code ErrorCode, message string, cause error) *YcgError {
	return &YcgError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf is New with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...interface{}) *YcgError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Error implements the error interface
func (e *YcgError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *YcgError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *YcgError) WithDetails(details interface{}) *YcgError {
	e.Details = details
	return e
}

// Fatal reports whether an error of this code must abort a conversion.
func (c ErrorCode) Fatal() bool {
	return c != EnrichmentFailed
}

// CodeOf extracts the code of the first YcgError in err's chain.
// Returns InternalError and false when there is none.
func CodeOf(err error) (ErrorCode, bool) {
	var ye *YcgError
	if stderrors.As(err, &ye) {
		return ye.Code, true
	}
	return InternalError, false
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	IndexMissing: {
		{
			Type:        RunCommand,
			Command:     "scip-typescript index",
			Safe:        true,
			Description: "Generate a SCIP index for the project",
		},
	},
	IndexCorrupt: {
		{
			Type:        RunCommand,
			Command:     "scip-typescript index",
			Safe:        true,
			Description: "Regenerate the SCIP index; the current file is not a valid index",
		},
	},
	ConfigConflict: {
		{
			Type:        EditConfig,
			Description: "Remove the pattern from either include or ignore.customPatterns",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "ycg config init",
			Safe:        true,
			Description: "Write a configuration file with valid defaults",
		},
	},
	FormatInvalid: {
		{
			Type:        RunCommand,
			Command:     "ycg validate <file> --format adhoc --granularity <level>",
			Safe:        true,
			Description: "Re-validate the document at the granularity level it was written with",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
