package main

import (
	"fmt"
	"os"
)

// casevault - CLI tool and API service for the case-study privacy
// pipeline: proof generation, compression accounting and threshold-gated
// disclosure
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
