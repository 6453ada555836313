package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestDocgenError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DocgenError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
		{
			name:     "engine error with cause",
			err:      Wrap(fmt.Errorf("exit status 2"), CategoryEngine, SeverityError, "engine build failed"),
			expected: "engine (error): engine build failed: exit status 2",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestDocgenError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := Wrap(cause, CategoryConvert, SeverityWarning, "conversion failed")

	if !stdErrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestDocgenError_WithContext(t *testing.T) {
	err := New(CategoryEngine, SeverityWarning, "build failed").
		WithContext("module", "pkg.sub.mod").
		WithContext("builder", "markdown")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}

	if err.Context["module"] != "pkg.sub.mod" {
		t.Errorf("Context[module] = %v, want pkg.sub.mod", err.Context["module"])
	}

	if err.Context["builder"] != "markdown" {
		t.Errorf("Context[builder] = %v, want markdown", err.Context["builder"])
	}
}

func TestIsCategory(t *testing.T) {
	configErr := New(CategoryConfig, SeverityFatal, "config error")
	engineErr := New(CategoryEngine, SeverityWarning, "engine error")
	standardErr := fmt.Errorf("standard error")

	tests := []struct {
		name     string
		err      error
		category ErrorCategory
		want     bool
	}{
		{"matching category", configErr, CategoryConfig, true},
		{"non-matching category", engineErr, CategoryConfig, false},
		{"standard error", standardErr, CategoryConfig, false},
		{"nil error", nil, CategoryConfig, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsCategory(test.err, test.category); got != test.want {
				t.Errorf("IsCategory() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestWrapConvertError_Retryable(t *testing.T) {
	err := WrapConvertError(fmt.Errorf("pandoc not found"), "pandoc conversion failed")
	if !err.Retryable {
		t.Error("converter errors should be retryable (next converter may succeed)")
	}
	if err.Severity != SeverityWarning {
		t.Errorf("Severity = %v, want warning", err.Severity)
	}
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{New(CategoryValidation, SeverityError, "bad flag"), 2},
		{New(CategoryConfig, SeverityError, "bad config"), 7},
		{New(CategoryEngine, SeverityError, "engine failed"), 8},
		{New(CategoryConvert, SeverityError, "convert failed"), 8},
		{New(CategoryManifest, SeverityError, "manifest failed"), 11},
		{New(CategoryWatch, SeverityError, "watch failed"), 12},
		{New(CategoryInternal, SeverityFatal, "bug"), 10},
		{fmt.Errorf("plain"), 1},
	}

	for _, test := range tests {
		if got := adapter.ExitCodeFor(test.err); got != test.want {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", test.err, got, test.want)
		}
	}
}

func TestCLIErrorAdapter_WrappedErrors(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, nil)

	// Pipeline failures arrive wrapped in an outer stage error; the category
	// must still be found through the chain.
	wrapped := fmt.Errorf("discover stage failed: %w",
		New(CategoryDiscovery, SeverityError, "package directory not found"))

	if got := adapter.ExitCodeFor(wrapped); got != 11 {
		t.Errorf("ExitCodeFor(wrapped) = %d, want 11", got)
	}
	if got := adapter.FormatError(wrapped); got != "discovery: package directory not found" {
		t.Errorf("FormatError(wrapped) = %q", got)
	}
	if adapter.shouldLog(wrapped) {
		t.Error("non-fatal classified error should not log without --verbose")
	}
}

func TestIsCategoryWrapped(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(CategoryManifest, SeverityError, "tab missing"))
	if !IsCategory(wrapped, CategoryManifest) {
		t.Error("IsCategory should unwrap to find the classified error")
	}
}
