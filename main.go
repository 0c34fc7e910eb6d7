package main

import (
	"os"

	"github.com/bisegni/dumpscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
