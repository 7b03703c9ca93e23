package main

import (
	"os"

	"github.com/asadikov/tweetsift/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
