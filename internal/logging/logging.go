// Package logging provides the debug switch shared by the trsassets tools.
package logging

import (
	"log"
	"os"
)

// DebugEnabled controls whether Debug() produces output.
// Set via -debug flag or DEBUG=1 environment variable.
var DebugEnabled bool

// Configure enables debug output when flag is set or DEBUG=1 is in the
// environment.
func Configure(flag bool) {
	DebugEnabled = flag || os.Getenv("DEBUG") == "1"
}

// Debug logs a message only when DebugEnabled is true.
func Debug(format string, args ...any) {
	if DebugEnabled {
		log.Printf("DEBUG: "+format, args...)
	}
}
