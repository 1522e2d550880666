package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/relay-run/relay/internal/console"
	"github.com/relay-run/relay/internal/flowerr"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [family]",
	Short: "List stored task families and their artifacts",
	Long: `Shows what the artifact workspace holds. Without arguments, one row per
task family with artifact counts and sizes. With a family name, every
stored artifact of that family.

Example:
relay inspect
relay inspect Train --data-dir ./data
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	ws := openWorkspace()
	if len(args) == 1 {
		return inspectFamily(args[0])
	}

	families, err := ws.Families()
	if err != nil {
		return err
	}
	if len(families) == 0 {
		fmt.Println(console.Info("Workspace is empty", "No artifacts under "+ws.Root()))
		return nil
	}

	table := console.NewTable("FAMILY", "TASKS", "ARTIFACTS", "SIZE", "MODIFIED")
	var totalBytes int64
	for _, f := range families {
		table.AddRow(f.Name, strconv.Itoa(f.Tasks), strconv.Itoa(f.Artifacts), formatBytes(f.Bytes), formatTime(f.Modified))
		totalBytes += f.Bytes
	}
	fmt.Print(table.String())
	fmt.Printf("%d families, %s total under %s\n", len(families), formatBytes(totalBytes), ws.Root())
	return nil
}

func inspectFamily(family string) error {
	ws := openWorkspace()
	artifacts, err := ws.Artifacts(family)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		return flowerr.NewWorkspaceNotFoundError(family)
	}

	table := console.NewTable("TASK", "ARTIFACT", "SIZE", "MODIFIED")
	for _, a := range artifacts {
		table.AddRow(a.TaskID, a.Name, formatBytes(a.Bytes), formatTime(a.Modified))
	}
	fmt.Print(table.String())
	return nil
}
