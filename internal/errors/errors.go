// Package errors provides centralized error handling for the pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

const (
	// Store integrity errors. These indicate a programming or integration
	// defect, are never expected in normal operation, and are not retried.
	CategoryReference      ErrorCategory = "reference"
	CategoryAlreadyLabeled ErrorCategory = "already-labeled"

	// CategoryConfiguration covers missing or empty vocabularies, mapping
	// files and embedding caches. Fatal for the run, not retried.
	CategoryConfiguration ErrorCategory = "configuration"

	// External collaborator failures. Recorded per image, the image is
	// skipped and the batch continues.
	CategoryDetection ErrorCategory = "detection"
	CategoryEmbedding ErrorCategory = "embedding"

	// CategoryUnknownLabel means a raw label has no entry in the unified
	// label map. Default policy is drop and continue.
	CategoryUnknownLabel ErrorCategory = "unknown-label"

	CategoryValidation  ErrorCategory = "validation"
	CategoryFileIO      ErrorCategory = "file-io"
	CategoryImageDecode ErrorCategory = "image-decode"
	CategoryFileParsing ErrorCategory = "file-parsing"
	CategoryNetwork     ErrorCategory = "network"
	CategoryGeneric     ErrorCategory = "generic"
)

// EnhancedError wraps an error with a category and context metadata
type EnhancedError struct {
	Err       error          // Original error
	Component string         // Component where the error occurred
	Category  ErrorCategory  // Error category for grouping
	Context   map[string]any // Additional context data
	Timestamp time.Time      // When the error occurred
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches two enhanced errors by category, otherwise defers to the
// wrapped error chain.
func (ee *EnhancedError) Is(target error) bool {
	if other, ok := target.(*EnhancedError); ok {
		return ee.Category == other.Category
	}
	return Is(ee.Err, target)
}

// GetCategory returns the error category
func (ee *EnhancedError) GetCategory() string {
	return string(ee.Category)
}

// GetContext returns a copy of the error context
func (ee *EnhancedError) GetContext() map[string]any {
	if ee.Context == nil {
		return nil
	}
	contextCopy := make(map[string]any, len(ee.Context))
	maps.Copy(contextCopy, ee.Context)
	return contextCopy
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error builder wrapping err
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new builder wrapping a formatted error
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// ImageContext adds the source image file name as context
func (eb *ErrorBuilder) ImageContext(fileName string) *ErrorBuilder {
	return eb.Context("image", fileName)
}

// Build creates the EnhancedError
func (eb *ErrorBuilder) Build() *EnhancedError {
	ee := &EnhancedError{
		Err:       eb.err,
		Component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}
	if ee.Category == "" {
		ee.Category = CategoryGeneric
	}
	return ee
}

// Standard library passthrough functions so this package can be used as a
// drop-in replacement for the standard errors package.

// NewStd creates a new standard error
func NewStd(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling Unwrap on err
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error wrapping the given errors
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// IsCategory checks whether err is an EnhancedError with the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var enhancedErr *EnhancedError
	return As(err, &enhancedErr) && enhancedErr.Category == category
}

// IsReference reports whether err is a store reference error.
func IsReference(err error) bool {
	return IsCategory(err, CategoryReference)
}

// IsAlreadyLabeled reports whether err is a single-assignment violation.
func IsAlreadyLabeled(err error) bool {
	return IsCategory(err, CategoryAlreadyLabeled)
}

// IsConfiguration reports whether err is a fatal configuration error.
func IsConfiguration(err error) bool {
	return IsCategory(err, CategoryConfiguration)
}

// IsRecoverable reports whether err is an external collaborator failure
// that should be recorded against one image without aborting the batch.
func IsRecoverable(err error) bool {
	return IsCategory(err, CategoryDetection) ||
		IsCategory(err, CategoryEmbedding) ||
		IsCategory(err, CategoryImageDecode) ||
		IsCategory(err, CategoryFileIO)
}

// IsUnknownLabel reports whether err is an unknown raw label lookup.
func IsUnknownLabel(err error) bool {
	return IsCategory(err, CategoryUnknownLabel)
}
