// Package report renders run summaries and dependency previews for
// terminal output.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/relay-run/relay/internal/console"
	"github.com/relay-run/relay/internal/store"
)

// maxListed caps how many task names a summary bullet expands before
// collapsing the rest into a count.
const maxListed = 8

// RenderSummary formats the end-of-run execution summary.
func RenderSummary(rec *store.RunRecord) string {
	rb := console.NewReportBuilder().
		Header("Execution Summary").
		AddKeyValue("Run", rec.ID).
		AddKeyValue("Elapsed", FormatElapsed(rec.Elapsed)).
		AddKeyValue("Workers", fmt.Sprintf("%d", rec.Workers)).
		AddEmptyLine().
		AddLinef("Scheduled %d task(s) of which:", len(rec.Tasks))

	addStatusLine(rb, rec, "UP-TO-DATE", rec.UpToDate, "already up to date")
	addStatusLine(rb, rec, "DONE", rec.Completed, "ran successfully")
	addStatusLine(rb, rec, "FAILED", rec.Failed, "failed")
	addStatusLine(rb, rec, "SKIPPED", rec.Skipped, "skipped because an upstream task failed")

	if rec.Failed > 0 {
		rb.Section("Failures")
		n := 0
		for _, t := range rec.Tasks {
			if t.Status != "FAILED" {
				continue
			}
			n++
			rb.AddNumbered(n, t.Display)
			if line := firstLine(t.Error); line != "" {
				rb.AddIndented(line, 1)
			}
		}
	}

	rb.AddEmptyLine()
	if rec.Success {
		rb.AddLine("The flow run succeeded")
	} else {
		rb.AddLine("The flow run FAILED")
	}
	return rb.Build()
}

func addStatusLine(rb *console.ReportBuilder, rec *store.RunRecord, status string, count int, label string) {
	if count == 0 {
		return
	}
	rb.AddBullet(fmt.Sprintf("%d %s:", count, label))
	names := make([]string, 0, count)
	for _, t := range rec.Tasks {
		if t.Status == status {
			names = append(names, t.Display)
		}
	}
	if len(names) > maxListed {
		extra := len(names) - maxListed
		names = append(names[:maxListed], fmt.Sprintf("and %d more", extra))
	}
	rb.AddIndented(strings.Join(names, ", "), 1)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// FormatElapsed renders a duration at millisecond precision.
func FormatElapsed(d time.Duration) string {
	if d < time.Millisecond && d > 0 {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}
