package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogType tags an entry with its destination stream.
type LogType string

const (
	UserLog LogType = "user"
	OpLog   LogType = "op"
)

// OutputRouter sends entries tagged log_type=user to the user writer and
// everything else to the op writer, each through its own formatter.
type OutputRouter struct {
	UserFormatter logrus.Formatter
	OpFormatter   logrus.Formatter
	UserWriter    io.Writer
	OpWriter      io.Writer
}

func NewOutputRouter() *OutputRouter {
	return &OutputRouter{
		UserFormatter: &CLIFormatter{
			DisableTimestamp: true,
			DisableLevel:     true,
		},
		OpFormatter: &CLIFormatter{
			DisableTimestamp: true,
			DisableLevel:     false,
		},
		UserWriter: os.Stdout,
		OpWriter:   os.Stderr,
	}
}

func (h *OutputRouter) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *OutputRouter) Fire(entry *logrus.Entry) error {
	logType, _ := entry.Data["log_type"].(string)

	var formatter logrus.Formatter
	var writer io.Writer

	if logType == string(UserLog) {
		formatter = h.UserFormatter
		writer = h.UserWriter

		if emoji, ok := entry.Data["emoji"].(string); ok && emoji != "" {
			entry.Message = emoji + " " + entry.Message
		}
	} else {
		formatter = h.OpFormatter
		writer = h.OpWriter
	}

	b, err := formatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = writer.Write(b)
	return err
}
