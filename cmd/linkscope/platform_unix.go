//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop a scrape or the server.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func enableANSI() {}
