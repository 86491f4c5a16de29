package main

import (
	"os"

	"pairauth/cmd/pairauth/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
