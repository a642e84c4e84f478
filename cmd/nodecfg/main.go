// Command nodecfg validates workflow node configurations against the node
// catalog, either from files, interactively, or as an HTTP service.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errInvalidValues) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
