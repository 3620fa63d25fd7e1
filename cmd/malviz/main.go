// Command malviz cleans malaria and under-five population tables and emits
// dashboard value boxes and chart specs.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/malviz/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
