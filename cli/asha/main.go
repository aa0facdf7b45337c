package main

import (
	"os"

	ashacmder "github.com/gramhealthco/asha/cmd/asha"
)

func main() {
	cmd := ashacmder.NewAshaCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
