package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/relay-run/relay/internal/console"
	"github.com/relay-run/relay/internal/report"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "Show run history recorded in the workspace",
	Long: `Lists recorded engine runs, newest first. With a run id, prints the full
execution summary of that run, including per-task failures.

Example:
relay runs
relay runs 20260823T101500Z-0a1
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")
}

func runRuns(cmd *cobra.Command, args []string) error {
	ws := openWorkspace()
	if len(args) == 1 {
		rec, err := ws.GetRun(args[0])
		if err != nil {
			return err
		}
		fmt.Println(report.RenderSummary(rec))
		return nil
	}

	runs, err := ws.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println(console.Info("No runs recorded", "Run history lives under "+ws.Root()+"/.relay/runs"))
		return nil
	}
	if runsLimit > 0 && len(runs) > runsLimit {
		runs = runs[:runsLimit]
	}

	table := console.NewTable("RUN", "STARTED", "ELAPSED", "WORKERS", "RESULT", "DONE", "FAILED", "SKIPPED")
	for _, r := range runs {
		result := "ok"
		if !r.Success {
			result = "FAILED"
		}
		table.AddRow(
			r.ID,
			formatTime(r.StartedAt),
			report.FormatElapsed(r.Elapsed),
			strconv.Itoa(r.Workers),
			result,
			strconv.Itoa(r.Completed),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Skipped),
		)
	}
	fmt.Print(table.String())
	return nil
}
