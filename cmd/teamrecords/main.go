package main

import (
	"github.com/joho/godotenv"

	"github.com/colmmasters/teamrecords/internal/cli"
)

func main() {
	// A missing .env is fine; configuration falls back to defaults.
	_ = godotenv.Load()

	cli.Execute()
}
