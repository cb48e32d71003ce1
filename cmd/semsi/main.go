// Package main is the entry point for the semsi CLI: it builds a document
// similarity matrix from a contents file of tag lists and prints or persists
// the result.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
