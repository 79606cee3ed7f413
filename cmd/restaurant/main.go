package main

import (
	"os"

	"restaurant-ordering/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
