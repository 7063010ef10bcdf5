// Command pallenec is the Pallene compiler's CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/pallene-lang/pallenec/cmd/pallenec/cmd"
	"github.com/pallene-lang/pallenec/internal/driver"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if _, ok := err.(*driver.ConflictError); ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
