// Command ragdrive searches a Google Drive folder and a local document
// library, and answers questions from what it finds.
package main

import (
	"os"

	"github.com/custodia-labs/ragdrive/internal/adapters/driving/cli"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
