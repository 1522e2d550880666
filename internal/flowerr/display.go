package flowerr

import (
	"fmt"
	"strings"
)

// DisplayErrorSummary provides a brief summary of the error for logs
func DisplayErrorSummary(err error) string {
	if flowErr, ok := err.(*FlowError); ok {
		return fmt.Sprintf("%s-%s: %s", flowErr.Category, flowErr.Code, flowErr.Message)
	}

	errStr := err.Error()
	if len(errStr) > 100 {
		return errStr[:97] + "..."
	}
	return errStr
}

// FormatForCLI formats an error for command-line display with proper spacing
func FormatForCLI(err error) string {
	flowErr, ok := err.(*FlowError)
	if !ok {
		return fmt.Sprintf("\nError: %v\n", err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\n%s Error [%s-%s]\n",
		string(flowErr.Category), flowErr.Category, flowErr.Code))
	sb.WriteString(fmt.Sprintf("  %s\n", flowErr.Message))

	if flowErr.Operation != "" {
		sb.WriteString(fmt.Sprintf("\nFailed Operation: %s\n", flowErr.Operation))
	}

	if len(flowErr.Context) > 0 {
		sb.WriteString("\nDetails:\n")
		for _, key := range contextKeys(flowErr.Context) {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", key, flowErr.Context[key]))
		}
	}

	if len(flowErr.Troubleshooting) > 0 {
		sb.WriteString("\nHow to resolve:\n")
		for i, step := range flowErr.Troubleshooting {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	if flowErr.OriginalError != nil {
		sb.WriteString(fmt.Sprintf("\nTechnical details: %v\n", flowErr.OriginalError))
	}

	return sb.String()
}

// GetErrorCode extracts the error code for reporting
func GetErrorCode(err error) string {
	if flowErr, ok := err.(*FlowError); ok {
		return fmt.Sprintf("%s-%s", flowErr.Category, flowErr.Code)
	}
	return "UNKNOWN"
}
