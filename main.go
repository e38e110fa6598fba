package main

import (
	"os"

	"github.com/isdelr/social-be/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
