// Package logger provides the two output channels used across relay: a
// user-facing logger that prints clean progress lines to stdout, and an
// operational logger that prints leveled diagnostics to stderr. Both are
// backed by a single logrus instance; a routing hook separates the streams
// based on a log_type field.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	User *UserLogger // Clean progress messages for users (stdout) with emojis
	Op   *OpLogger   // Detailed operational logs (stderr) without emojis

	mu   sync.Mutex
	base *logrus.Logger
)

func init() {
	base = logrus.New()
	base.SetOutput(io.Discard)
	base.SetLevel(logrus.InfoLevel)
	base.AddHook(NewOutputRouter())

	User = &UserLogger{logger: base}
	Op = &OpLogger{logger: base}
}

// UserLogger emits the stdout stream. Messages are plain lines; the
// emoji-carrying methods prefix a status marker through the routing hook.
type UserLogger struct {
	logger *logrus.Logger
}

type OpLogger struct {
	logger *logrus.Logger
}

func (u *UserLogger) Info(msg string) {
	u.logger.WithField("log_type", string(UserLog)).Info(msg)
}

func (u *UserLogger) Infof(format string, args ...interface{}) {
	u.logger.WithField("log_type", string(UserLog)).Infof(format, args...)
}

func (u *UserLogger) Error(msg string) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "❌",
	}).Error(msg)
}

func (u *UserLogger) Errorf(format string, args ...interface{}) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "❌",
	}).Errorf(format, args...)
}

func (u *UserLogger) Warn(msg string) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "⚠️",
	}).Warn(msg)
}

func (u *UserLogger) Warnf(format string, args ...interface{}) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "⚠️",
	}).Warnf(format, args...)
}

// Starting marks the beginning of a run or of an individual task.
func (u *UserLogger) Starting(msg string) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "🚀",
	}).Info(msg)
}

func (u *UserLogger) Startingf(format string, args ...interface{}) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "🚀",
	}).Infof(format, args...)
}

func (u *UserLogger) Success(msg string) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "✅",
	}).Info(msg)
}

func (u *UserLogger) Successf(format string, args ...interface{}) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "✅",
	}).Infof(format, args...)
}

// Skip reports a task that was not run, either because its output already
// exists or because something upstream of it failed.
func (u *UserLogger) Skip(msg string) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "⏭️",
	}).Info(msg)
}

func (u *UserLogger) Skipf(format string, args ...interface{}) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "⏭️",
	}).Infof(format, args...)
}

// Delete reports artifact removal during reset or invalidation.
func (u *UserLogger) Delete(msg string) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "🗑️",
	}).Info(msg)
}

func (u *UserLogger) Deletef(format string, args ...interface{}) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "🗑️",
	}).Infof(format, args...)
}

// Create reports a persisted artifact.
func (u *UserLogger) Create(msg string) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "💾",
	}).Info(msg)
}

func (u *UserLogger) Createf(format string, args ...interface{}) {
	u.logger.WithFields(logrus.Fields{
		"log_type": string(UserLog),
		"emoji":    "💾",
	}).Infof(format, args...)
}

// OpLogger methods without emojis, clean operational logs.
func (o *OpLogger) Info(msg string) {
	o.logger.WithField("log_type", string(OpLog)).Info(msg)
}

func (o *OpLogger) Infof(format string, args ...interface{}) {
	o.logger.WithField("log_type", string(OpLog)).Infof(format, args...)
}

func (o *OpLogger) Error(msg string) {
	o.logger.WithField("log_type", string(OpLog)).Error(msg)
}

func (o *OpLogger) Errorf(format string, args ...interface{}) {
	o.logger.WithField("log_type", string(OpLog)).Errorf(format, args...)
}

func (o *OpLogger) Warn(msg string) {
	o.logger.WithField("log_type", string(OpLog)).Warn(msg)
}

func (o *OpLogger) Warnf(format string, args ...interface{}) {
	o.logger.WithField("log_type", string(OpLog)).Warnf(format, args...)
}

func (o *OpLogger) Debug(msg string) {
	o.logger.WithField("log_type", string(OpLog)).Debug(msg)
}

func (o *OpLogger) Debugf(format string, args ...interface{}) {
	o.logger.WithField("log_type", string(OpLog)).Debugf(format, args...)
}

func (o *OpLogger) WithFields(fields map[string]interface{}) *logrus.Entry {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["log_type"] = string(OpLog)
	return o.logger.WithFields(fields)
}

// Setup configures the shared logger. Environment variables override the
// flags: RELAY_LOG_MODE (quiet|verbose|debug) and RELAY_LOG_FORMAT
// (json|text).
func Setup(verbose bool, jsonLogs bool, quiet bool) {
	if envLogMode := os.Getenv("RELAY_LOG_MODE"); envLogMode != "" {
		switch envLogMode {
		case "quiet":
			quiet = true
			verbose = false
		case "verbose", "debug":
			verbose = true
			quiet = false
		}
	}

	if envLogFormat := os.Getenv("RELAY_LOG_FORMAT"); envLogFormat != "" {
		switch envLogFormat {
		case "json":
			jsonLogs = true
		case "text":
			jsonLogs = false
		}
	}

	var level logrus.Level
	switch {
	case quiet:
		level = logrus.ErrorLevel
	case verbose:
		level = logrus.DebugLevel
	default:
		level = logrus.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()

	// Output is handled entirely by the routing hook.
	base.SetOutput(io.Discard)
	base.SetLevel(level)
	base.Hooks = make(logrus.LevelHooks)

	hook := NewOutputRouter()
	if jsonLogs {
		hook.UserFormatter = &logrus.JSONFormatter{}
		hook.OpFormatter = &logrus.JSONFormatter{}
	} else {
		hook.UserFormatter = &CLIFormatter{
			DisableTimestamp: true,
			DisableLevel:     true,
		}
		if verbose {
			hook.OpFormatter = &logrus.TextFormatter{
				FullTimestamp: true,
				ForceColors:   isatty.IsTerminal(os.Stderr.Fd()),
			}
		} else {
			hook.OpFormatter = &CLIFormatter{
				DisableTimestamp: true,
				DisableLevel:     false,
				DisableColors:    !isatty.IsTerminal(os.Stderr.Fd()),
			}
		}
	}
	base.AddHook(hook)

	User = &UserLogger{logger: base}
	Op = &OpLogger{logger: base}
}

// SetLevel applies a named log level (panic, fatal, error, warn, info,
// debug, trace) to the shared logger.
func SetLevel(name string) error {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	mu.Lock()
	defer mu.Unlock()
	base.SetLevel(level)
	return nil
}

// Level reports the shared logger's current level.
func Level() logrus.Level {
	mu.Lock()
	defer mu.Unlock()
	return base.Level
}
