package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relay-run/relay"
	"github.com/relay-run/relay/internal/monitor"
)

var monitorAddr string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Serve the read-only workspace API over HTTP",
	Long: `Starts an HTTP server exposing workspace contents and run history:
families, artifacts, run reports and an aggregate status endpoint. The
server only reads the data directory and stops on SIGINT or SIGTERM.

Example:
relay monitor --addr :8077 --data-dir ./data
`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorAddr, "addr", "", "Listen address (defaults to the monitor_addr setting)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	addr := monitorAddr
	if addr == "" {
		addr = relay.MonitorAddr()
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return monitor.New(openWorkspace(), addr).Run(ctx)
}
