package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/cfdirect/cfdirect/internal/cli"
	"github.com/cfdirect/cfdirect/pkg/version"
)

func main() {
	err := fang.Execute(context.Background(), cli.NewRootCmd(),
		fang.WithVersion(version.Get().String()),
		fang.WithErrorHandler(cli.ErrorHandler),
	)
	if err != nil {
		os.Exit(1)
	}
}
