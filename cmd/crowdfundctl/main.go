package main

import (
	"fmt"
	"os"
)

// Operator CLI for the postgres backend: schema migration, direct identity
// registration and campaign listing.
func main() {
	if err := RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
