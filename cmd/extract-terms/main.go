// Command extract-terms reads one or more text corpora and prints
// candidate multi-word terms ranked by score.
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
