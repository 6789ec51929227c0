package main

import (
	"os"

	"unusedvar/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
