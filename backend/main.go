package main

import (
	"os"

	"github.com/greatchat/onboarding/backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
