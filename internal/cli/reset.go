package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relay-run/relay/internal/console"
	"github.com/relay-run/relay/internal/flowerr"
	"github.com/relay-run/relay/internal/logger"
)

var resetAutoApprove bool

var resetCmd = &cobra.Command{
	Use:   "reset <family> [task-id]",
	Short: "Remove stored artifacts so tasks run again",
	Long: `Deletes the persisted outputs of a task family, or of a single task id
within it. The affected tasks become incomplete and will be recomputed by
the next run that needs them.

Example:
relay reset Train
relay reset Train Train_1a2b3c4d5e --yes
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVarP(&resetAutoApprove, "yes", "y", false, "Skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	ws := openWorkspace()
	family := args[0]

	artifacts, err := ws.Artifacts(family)
	if err != nil {
		return err
	}
	if len(args) == 2 {
		taskID := args[1]
		var kept []string
		for _, a := range artifacts {
			if a.TaskID == taskID {
				kept = append(kept, fmt.Sprintf("%s (%s)", a.Name, formatBytes(a.Bytes)))
			}
		}
		if len(kept) == 0 {
			return flowerr.NewWorkspaceNotFoundError(family + "/" + taskID)
		}
		ok, err := console.ConfirmItems(os.Stdin, resetAutoApprove,
			fmt.Sprintf("Remove the stored output of task %s", taskID), kept)
		if err != nil {
			return err
		}
		if !ok {
			logger.User.Skip("Reset cancelled")
			return nil
		}
		n, err := ws.RemoveTask(family, taskID)
		if err != nil {
			return err
		}
		fmt.Println(console.Success("Reset complete", fmt.Sprintf("Removed %d artifact(s) of task %s", n, taskID)))
		return nil
	}

	if len(artifacts) == 0 {
		return flowerr.NewWorkspaceNotFoundError(family)
	}
	items := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, fmt.Sprintf("%s/%s (%s)", a.TaskID, a.Name, formatBytes(a.Bytes)))
	}
	ok, err := console.ConfirmItems(os.Stdin, resetAutoApprove,
		fmt.Sprintf("Remove %d artifact(s) of family %s", len(artifacts), family), items)
	if err != nil {
		return err
	}
	if !ok {
		logger.User.Skip("Reset cancelled")
		return nil
	}
	n, err := ws.RemoveFamily(family)
	if err != nil {
		return err
	}
	fmt.Println(console.Success("Reset complete", fmt.Sprintf("Removed %d artifact(s) of family %s", n, family)))
	return nil
}
