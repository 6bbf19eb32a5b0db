// Package console provides the stderr logging backend.
package console

import (
	"os"

	"github.com/charmbracelet/log"
)

// Console writes styled log lines to stderr via charmbracelet/log.
type Console struct {
	logger *log.Logger
}

// Params configures the console backend.
type Params struct {
	// Debug lowers the level from INFO to DEBUG.
	Debug bool
	// Prefix labels every line, useful to tell server and worker apart.
	Prefix string
}

// New creates a console backend.
func New(params Params) *Console {
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	return &Console{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Level:           level,
			Prefix:          params.Prefix,
		}),
	}
}

func (c *Console) Debug(message string, keyvals ...any) {
	c.logger.Debug(message, keyvals...)
}

func (c *Console) Info(message string, keyvals ...any) {
	c.logger.Info(message, keyvals...)
}

func (c *Console) Warn(message string, keyvals ...any) {
	c.logger.Warn(message, keyvals...)
}

func (c *Console) Error(message string, keyvals ...any) {
	c.logger.Error(message, keyvals...)
}

// Fatal logs the message and exits the process.
func (c *Console) Fatal(message string, keyvals ...any) {
	c.logger.Fatal(message, keyvals...)
}
