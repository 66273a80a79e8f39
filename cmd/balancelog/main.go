// Command balancelog ingests balance summary blocks from a log into SQLite.
package main

import (
	"os"

	"github.com/roach88/balancelog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
