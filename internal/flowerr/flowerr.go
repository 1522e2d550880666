// Package flowerr defines the structured errors surfaced on user-facing
// paths: workspace access, configuration loading, and artifact store
// failures. Engine-level task failures stay plain wrapped errors; these
// carry enough context for the CLI to print actionable messages.
package flowerr

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the category of error
type ErrorCategory string

const (
	// ErrorCategoryStore represents artifact store read/write errors
	ErrorCategoryStore ErrorCategory = "STORE"
	// ErrorCategoryConfig represents settings and configuration errors
	ErrorCategoryConfig ErrorCategory = "CONFIG"
	// ErrorCategoryWorkspace represents workspace layout/lookup errors
	ErrorCategoryWorkspace ErrorCategory = "WORKSPACE"
	// ErrorCategoryHistory represents run history errors
	ErrorCategoryHistory ErrorCategory = "HISTORY"
)

// FlowError is a structured error with context and troubleshooting
// information for display to users.
type FlowError struct {
	Category        ErrorCategory
	Code            string
	Message         string
	Operation       string
	Context         map[string]interface{}
	Troubleshooting []string
	OriginalError   error
}

// Error implements the error interface
func (e *FlowError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s-%s: %s", e.Category, e.Code, e.Message))

	if e.Operation != "" {
		sb.WriteString(fmt.Sprintf("\nOperation: %s", e.Operation))
	}

	if len(e.Context) > 0 {
		sb.WriteString("\nContext:")
		for _, key := range contextKeys(e.Context) {
			sb.WriteString(fmt.Sprintf("\n  %s: %v", key, e.Context[key]))
		}
	}

	if len(e.Troubleshooting) > 0 {
		sb.WriteString("\nTroubleshooting:")
		for i, step := range e.Troubleshooting {
			sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, step))
		}
	}

	if e.OriginalError != nil {
		sb.WriteString(fmt.Sprintf("\nUnderlying error: %v", e.OriginalError))
	}

	return sb.String()
}

// Unwrap returns the original error for error chain compatibility
func (e *FlowError) Unwrap() error {
	return e.OriginalError
}

// New creates a new flow error with the specified parameters
func New(category ErrorCategory, code, message, operation string) *FlowError {
	return &FlowError{
		Category:        category,
		Code:            code,
		Message:         message,
		Operation:       operation,
		Context:         make(map[string]interface{}),
		Troubleshooting: []string{},
	}
}

// WithContext adds context information to the error
func (e *FlowError) WithContext(key string, value interface{}) *FlowError {
	e.Context[key] = value
	return e
}

// WithTroubleshooting adds troubleshooting steps to the error
func (e *FlowError) WithTroubleshooting(steps ...string) *FlowError {
	e.Troubleshooting = append(e.Troubleshooting, steps...)
	return e
}

// WithOriginalError attaches the underlying error
func (e *FlowError) WithOriginalError(err error) *FlowError {
	e.OriginalError = err
	return e
}

func contextKeys(ctx map[string]interface{}) []string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
