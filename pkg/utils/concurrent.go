// nolint: revive
package utils

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
)

func SafelyRun(function func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w\n%s", e, string(debug.Stack()))
			} else {
				err = fmt.Errorf("panic: %v\n%s", r, string(debug.Stack()))
			}
		}
	}()

	function()

	return nil
}

func SafelyGo(function func(), handleError func(error)) {
	go func() {
		err := SafelyRun(function)
		if err != nil {
			handleError(err)
		}
	}()
}

// SetupSignalContext returns a context cancelled on SIGINT or SIGTERM. A
// second signal exits immediately.
func SetupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
