package main

import (
	"os"

	"github.com/spektr-org/derive/cmd/derive/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
