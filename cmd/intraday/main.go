package main

import (
	"os"

	"github.com/joho/godotenv"

	"btc-intraday/cmd/intraday/cmd"
)

func main() {
	// A local .env can provide INTRADAY_CONFIG / INTRADAY_DB; variables
	// already present in the environment win.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
