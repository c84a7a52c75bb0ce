// Command pfcli is a small demo binary around the ttdpf library: it loads a
// textual map fixture and runs one pathfinder query against it, printing the
// result. It exists for manual smoke-testing during development, not as a
// product surface (SPEC_FULL.md explicitly scopes a real CLI/UI out).
package main

import (
	"fmt"
	"os"

	"github.com/turnforge/ttdpf/cmd/pfcli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
