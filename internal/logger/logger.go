// Package logger provides verbose logging for ragdrive.
// Debug, Info and Warn lines are printed to stderr only when verbose mode is
// enabled via the --verbose flag. Error lines are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(false, "DEBUG", "", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(false, "INFO", "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write(false, "WARN", "", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	write(true, "ERROR", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Component is a logger that tags every line with a component name,
// e.g. "[DEBUG] crawler: listing folder Root".
type Component struct {
	name string
}

// For returns a logger scoped to the named component.
func For(name string) Component {
	return Component{name: name}
}

// Debug prints a component message if verbose mode is enabled.
func (c Component) Debug(format string, args ...any) {
	write(false, "DEBUG", c.name, format, args...)
}

// Info prints a component message if verbose mode is enabled.
func (c Component) Info(format string, args ...any) {
	write(false, "INFO", c.name, format, args...)
}

// Warn prints a component warning if verbose mode is enabled.
func (c Component) Warn(format string, args ...any) {
	write(false, "WARN", c.name, format, args...)
}

// Error prints a component error regardless of verbose mode.
func (c Component) Error(format string, args ...any) {
	write(true, "ERROR", c.name, format, args...)
}

func write(always bool, level, component, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !always && !verbose {
		return
	}
	prefix := "[" + level + "] "
	if component != "" {
		prefix += component + ": "
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
