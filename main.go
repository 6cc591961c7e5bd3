// This is the main-driver for our compiler.

package main

import (
	"fmt"
	"os"

	"github.com/snek-lang/snekc/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
