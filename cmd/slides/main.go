package main

import (
	"os"

	"github.com/baaaaaaaka/slides/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
