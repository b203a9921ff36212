package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// DebugEnabled returns true if debug mode is enabled via TK_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TK_DEBUG") != ""
}

// Debugf logs a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		log.Default().Debugf(format, args...)
	}
}

