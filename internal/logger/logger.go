package logger

import (
	"github.com/fatih/color" // Colored console output for the different log levels
)

// Package-level printf-style functions used for terminal echo. Each behaves
// like fmt.Printf but renders in a color matching the severity, so a user
// watching a long provisioning run can pick out warnings and errors at a
// glance. The durable, timestamped record of a run is kept separately by
// the Recorder; these functions are presentation only.

// Info prints informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn prints warning messages in bright magenta.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error prints error messages in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug prints diagnostic messages in cyan when enabled, otherwise is a no-op.
// It is reassigned by Init based on the --debug flag. Debug output is terminal
// only and never enters the run log file.
var Debug = func(format string, a ...any) {}

// Init enables or disables debug output. It must be called before any
// component logs; the cobra root command does this in PersistentPreRun.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
