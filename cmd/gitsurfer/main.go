// Command gitsurfer is a research assistant for public GitHub repositories.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kumar8074/GitSurfer/internal/adapters/driving/cli"
	"github.com/kumar8074/GitSurfer/internal/core/domain"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "configuration error (%s): %s\n", cfgErr.Setting, cfgErr.Reason)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
