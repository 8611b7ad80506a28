package main

import (
	"fmt"
	"os"

	"github.com/RooCodeInc/RooVersation/cmd"
)

func main() {
	if err := cmd.NewCLI().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
