package main

import (
	"os"

	"github.com/comitanigiacomo/kanso-habits/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
