package main

import (
	"context"
	"os"

	"folio/service"
)

// exit is replaced in tests.
var exit = os.Exit

func main() {
	RealMain(os.Args[1:])
}

// RealMain runs the folio command line with args and exits non-zero on failure.
func RealMain(args []string) {
	root := service.NewRootCommand()
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		exit(1)
	}
}
