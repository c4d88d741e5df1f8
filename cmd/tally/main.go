package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tally-dev/tally/internal/commands"
)

func main() {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, commands.ErrFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
