// Command boxql generates typed declarations from a schema file and renders
// or runs SELECT statements built against it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/syssam/boxql/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "boxql: %v\n", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
