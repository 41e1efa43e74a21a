package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sidelock/sidelock/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var code cmd.ExitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintf(os.Stderr, "sidelock: %v\n", err)
		os.Exit(1)
	}
}
