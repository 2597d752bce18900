package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"
)

var (
	crashHook atomic.Pointer[func(any)]

	// Overridden by tests
	crashOut  io.Writer = os.Stderr
	crashExit           = os.Exit
)

// SetCrashHandler installs a hook run before the stack trace is printed, typically restoring the terminal
// Keeps this package independent of the screen implementation
func SetCrashHandler(fn func(r any)) {
	if fn == nil {
		crashHook.Store(nil)
		return
	}
	crashHook.Store(&fn)
}

// HandleCrash is the unified panic handler: runs the hook, prints the stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	if hook := crashHook.Load(); hook != nil {
		(*hook)(r)
	}

	// \r\n keeps the trace readable if the terminal is still in raw mode
	fmt.Fprintf(crashOut, "\r\n\x1b[31mSKIDPAD CRASHED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\r\n%s\r\n", debug.Stack())

	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use instead of the 'go' keyword so a crash anywhere restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
