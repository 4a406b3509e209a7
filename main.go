package main

import (
	"os"

	"github.com/edumind/edumind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
