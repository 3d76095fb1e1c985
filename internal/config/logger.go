package config

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a leveled logger writing to w. An unknown level falls
// back to info.
func NewLogger(w io.Writer, level, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
}
