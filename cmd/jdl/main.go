package main

import (
	"context"
	"os"

	"github.com/jacoelho/jdl/internal/cli"
	"github.com/jacoelho/jdl/internal/exit"
)

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)

	result := exit.FromError(err)
	result.Print()
	return result.ExitCode
}
