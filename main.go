package main

import (
	"os"

	"github.com/andig/evopt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
