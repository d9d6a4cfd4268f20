package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"crosschain-swap/cmd"
)

func main() {
	// A .env file is optional; config falls back to real env vars.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
