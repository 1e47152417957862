// Command cropctl runs the decision engine offline and inspects its artifacts.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
