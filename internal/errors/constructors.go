package errors

// Convenience constructors for the common category/severity pairs used
// throughout the codebase. Keeping them here makes call sites short and
// consistent without pulling in the full builder ceremony.

// NewConfigError creates a config-category error (user-facing, not retryable).
func NewConfigError(message string) *DocgenError {
	return New(CategoryConfig, SeverityError, message)
}

// WrapConfigError wraps an underlying error as a config-category error.
func WrapConfigError(err error, message string) *DocgenError {
	return Wrap(err, CategoryConfig, SeverityError, message)
}

// NewValidationError creates a validation-category error.
func NewValidationError(message string) *DocgenError {
	return New(CategoryValidation, SeverityError, message)
}

// WrapEngineError wraps an engine invocation failure.
func WrapEngineError(err error, message string) *DocgenError {
	return Wrap(err, CategoryEngine, SeverityError, message)
}

// WrapConvertError wraps a converter failure. Converter failures are
// retryable in the sense that the next converter in the chain may succeed.
func WrapConvertError(err error, message string) *DocgenError {
	return WrapRetryable(err, CategoryConvert, SeverityWarning, message)
}

// WrapFileSystemError wraps a filesystem failure.
func WrapFileSystemError(err error, message string) *DocgenError {
	return Wrap(err, CategoryFileSystem, SeverityError, message)
}

// WrapManifestError wraps a navigation manifest failure.
func WrapManifestError(err error, message string) *DocgenError {
	return Wrap(err, CategoryManifest, SeverityError, message)
}

// WrapStateError wraps a build-state store failure. State is best-effort,
// so these default to warning severity.
func WrapStateError(err error, message string) *DocgenError {
	return Wrap(err, CategoryState, SeverityWarning, message)
}
