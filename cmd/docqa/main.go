package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/docqa/docqa/internal/adapters/driving/cli"
)

func main() {
	// A local .env may carry provider credentials; its absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
