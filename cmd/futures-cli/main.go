package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirphl/futures-cli/internal/cli"
)

func main() {
	// A user interrupt aborts the whole process; there is no partial
	// cancellation of an in-flight order attempt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Operation cancelled.")
		os.Exit(130)
	}()

	os.Exit(cli.Execute())
}
