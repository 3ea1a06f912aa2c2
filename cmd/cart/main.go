package main

import (
	"fmt"
	"os"

	"rocketshoes-cart/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		code := cli.GetExitCode(err)
		// rejections were already reported by the command
		if code == cli.ExitCommandError {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(code)
	}
}
