// Command build-transducer builds a minimal acyclic subsequential
// transducer from a sorted key/value dictionary and persists it in
// QUTD v1 format.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
