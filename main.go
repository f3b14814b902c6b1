package main

import (
	"os"

	"github.com/seedling-dev/seedling/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
