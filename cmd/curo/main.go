package main

import (
	"os"

	"github.com/meenmo/curo/cmd/curo/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
