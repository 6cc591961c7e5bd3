// Command snek-run is the host program the linked runtime archive
// becomes part of: it parses the single optional input argument, hands
// it to the assembled program via runtime.Run, and prints the result —
// mirroring original_source/runtime/start.rs's fn main(), just with
// Go driving the call into assembly instead of Rust.
package main

import (
	"fmt"
	"os"

	"github.com/snek-lang/snekc/runtime"
)

func main() {
	input := "false"
	if len(os.Args) > 1 {
		input = os.Args[1]
	}

	tagged, err := runtime.ParseInput(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	result := runtime.Run(tagged)
	runtime.PrintResult(result)
}
