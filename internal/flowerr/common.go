package flowerr

import (
	"fmt"
	"strings"
)

// Common error codes
const (
	// Store error codes
	CodeStoreWrite = "001"
	CodeStoreRead  = "002"

	// Config error codes
	CodeConfigValue = "002"

	// Workspace error codes
	CodeWorkspaceNotFound = "002"

	// History error codes
	CodeHistoryNotFound = "002"
)

// NewStoreWriteError reports a failed artifact write.
func NewStoreWriteError(path string, originalErr error) *FlowError {
	return New(ErrorCategoryStore, CodeStoreWrite,
		fmt.Sprintf("Failed to write artifact '%s'", path),
		"Artifact write").
		WithContext("path", path).
		WithOriginalError(originalErr).
		WithTroubleshooting(
			"Check that the data directory is writable",
			"Verify there is enough free disk space",
			"Make sure no other process holds the file open",
		)
}

// NewStoreReadError reports a failed artifact read.
func NewStoreReadError(path string, originalErr error) *FlowError {
	err := New(ErrorCategoryStore, CodeStoreRead,
		fmt.Sprintf("Failed to read artifact '%s'", path),
		"Artifact read").
		WithContext("path", path).
		WithOriginalError(originalErr)

	if originalErr != nil && strings.Contains(strings.ToLower(originalErr.Error()), "no such file") {
		return err.WithTroubleshooting(
			"The task may never have run; execute the flow first",
			"Check the data directory setting points at the right workspace",
		)
	}
	return err.WithTroubleshooting(
		"Check file permissions under the data directory",
		"The artifact may be corrupt; reset the task and re-run",
	)
}

// NewWorkspaceNotFoundError reports a lookup of a family or task that has
// no artifacts in the workspace.
func NewWorkspaceNotFoundError(name string) *FlowError {
	return New(ErrorCategoryWorkspace, CodeWorkspaceNotFound,
		fmt.Sprintf("No artifacts found for '%s'", name),
		"Workspace lookup").
		WithContext("name", name).
		WithTroubleshooting(
			"Run 'relay inspect' to list the families present in the workspace",
			"Check the --data-dir flag points at the right workspace",
		)
}

// NewConfigError reports an invalid settings value.
func NewConfigError(field string, value interface{}, originalErr error) *FlowError {
	return New(ErrorCategoryConfig, CodeConfigValue,
		fmt.Sprintf("Invalid value for %s: '%v'", field, value),
		"Settings load").
		WithContext("field", field).
		WithContext("value", value).
		WithOriginalError(originalErr).
		WithTroubleshooting(
			"Check relay.yaml and RELAY_* environment variables",
			"Refer to the settings documentation for valid values",
		)
}

// NewHistoryNotFoundError reports a missing run report.
func NewHistoryNotFoundError(runID string) *FlowError {
	return New(ErrorCategoryHistory, CodeHistoryNotFound,
		fmt.Sprintf("Run '%s' not found", runID),
		"Run history lookup").
		WithContext("run", runID).
		WithTroubleshooting(
			"Run 'relay runs' to list recorded runs",
			"Reports live under <data-dir>/.relay/runs",
		)
}

// IsUserError determines if an error is due to user input or configuration
func IsUserError(err error) bool {
	if flowErr, ok := err.(*FlowError); ok {
		return flowErr.Category == ErrorCategoryConfig ||
			flowErr.Category == ErrorCategoryWorkspace
	}
	return false
}
