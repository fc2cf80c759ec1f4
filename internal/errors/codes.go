// Package errors provides structured error handling for extcheck.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, directory, encoding)
//   - 3XX: External tool errors (compiler)
//   - 4XX: Validation errors (manifest, thresholds, required content)
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and directory I/O errors.
	CategoryIO Category = "IO"
	// CategoryTool indicates errors from an external tool invocation.
	CategoryTool Category = "TOOL"
	// CategoryValidation indicates a project artifact failed an expectation.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
	// SeverityInfo indicates informational only.
	SeverityInfo Severity = "INFO"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound   = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    = "ERR_102_CONFIG_INVALID"
	ErrCodeConfigPermission = "ERR_103_CONFIG_PERMISSION"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeFileEncoding   = "ERR_203_FILE_ENCODING"
	ErrCodeDirUnreadable  = "ERR_204_DIR_UNREADABLE"
	ErrCodeLockHeld       = "ERR_205_LOCK_HELD"

	// Tool errors (300-399)
	ErrCodeToolNotFound = "ERR_301_TOOL_NOT_FOUND"
	ErrCodeToolTimeout  = "ERR_302_TOOL_TIMEOUT"
	ErrCodeToolFailed   = "ERR_303_TOOL_FAILED"

	// Validation errors (400-499)
	ErrCodeManifestInvalid = "ERR_401_MANIFEST_INVALID"
	ErrCodeMissingField    = "ERR_402_MISSING_FIELD"
	ErrCodeBelowThreshold  = "ERR_403_BELOW_THRESHOLD"
	ErrCodeMissingContent  = "ERR_404_MISSING_CONTENT"
	ErrCodeInvalidInput    = "ERR_405_INVALID_INPUT"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeCheckCrashed = "ERR_502_CHECK_CRASHED"
	ErrCodeNotReady     = "ERR_503_NOT_READY"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "201" from "ERR_201_FILE_NOT_FOUND")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryTool
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeConfigInvalid, ErrCodeConfigPermission, ErrCodeLockHeld:
		return SeverityFatal
	case ErrCodeToolNotFound:
		// A missing compiler downgrades the compile check to a skip.
		return SeverityInfo
	case ErrCodeNotReady:
		return SeverityWarning
	}
	return SeverityError
}
