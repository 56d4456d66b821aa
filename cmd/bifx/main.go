package main

import (
	"os"

	"github.com/ozanyurt/bifx/cmd/bifx/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
