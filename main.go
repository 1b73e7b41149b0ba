package main

import (
	"fmt"
	"os"

	"github.com/wardenhq/warden/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if cmd.ExitCode() == 0 {
			os.Exit(2)
		}
		os.Exit(cmd.ExitCode())
	}
	os.Exit(cmd.ExitCode())
}
