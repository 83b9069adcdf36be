package main

import (
	"os"

	"github.com/seedling-db/seedling/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
