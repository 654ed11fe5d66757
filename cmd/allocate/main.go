package main

import (
	"os"

	"allocator/internal/adapters/in/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
