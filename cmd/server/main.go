package main

import (
	"os"

	"github.com/micro-ha/nocontact/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
