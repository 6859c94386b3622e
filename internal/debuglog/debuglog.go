// Package debuglog appends timestamped diagnostics to a file when RFIND_DEBUG=1.
// The viewer owns the terminal, so nothing here ever writes to stdout or stderr.
package debuglog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

const defaultFile = "rfind-debug.log"

var (
	enabled = os.Getenv("RFIND_DEBUG") == "1"
	file    = os.Getenv("RFIND_DEBUG_FILE")
	mu      sync.Mutex
)

// Enabled reports whether debug logging is switched on.
func Enabled() bool {
	return enabled
}

// Printf appends one line to the debug log.
func Printf(format string, args ...interface{}) {
	if !enabled {
		return
	}
	mu.Lock()
	defer mu.Unlock()

	path := file
	if path == "" {
		path = defaultFile
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	timestamp := time.Now().Format(time.RFC3339Nano)
	_, _ = fmt.Fprintf(f, "%s "+format+"\n", append([]interface{}{timestamp}, args...)...)
	_ = f.Close()
}
