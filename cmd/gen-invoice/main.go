package main

import (
	"os"

	"github.com/goliatone/go-invoicegen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
