package main

import (
	"os"

	"github.com/Makepad-fr/planner/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
