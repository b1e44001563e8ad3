package main

import (
	"fmt"
	"os"
)

const version = "0.0.1"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jobsh: %s\n", err.Error())
		os.Exit(1)
	}
}
