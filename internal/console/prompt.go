package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prompts for confirmation before a destructive operation. If
// autoApprove is true it returns true without prompting. The action
// parameter describes what will happen (e.g. "remove artifacts"); details
// names the affected resource.
func Confirm(in io.Reader, autoApprove bool, action, details string) (bool, error) {
	if autoApprove {
		return true, nil
	}

	fmt.Println(Question("About to "+action, "Details: "+details))
	fmt.Print("Are you sure you want to continue? (yes/no): ")

	return readYesNo(in)
}

// ConfirmItems prompts for confirmation of an action on multiple items.
// If autoApprove is true it returns true without prompting.
func ConfirmItems(in io.Reader, autoApprove bool, action string, items []string) (bool, error) {
	if autoApprove {
		return true, nil
	}

	box := NewBox(WarningMessage, fmt.Sprintf("About to %s %d item(s)", action, len(items)))
	for _, item := range items {
		box.AddBullet(item)
	}
	fmt.Println(box.Render())
	fmt.Print("Are you sure you want to continue? (yes/no): ")

	return readYesNo(in)
}

func readYesNo(in io.Reader) (bool, error) {
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user confirmation: %w", err)
	}

	input = strings.ToLower(strings.TrimSpace(input))
	return input == "yes" || input == "y", nil
}
