package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tripdex/tripdex/internal/version"
)

func main() {
	// Pick up a local .env if present; real environment variables win.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "tripdex",
		Short:         "Dubai tourism API with semantic location search",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newIngestCmd())

	if err := root.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
