package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is the release reported by the version command.
var version = "1.0.0"

func main() {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	env := parseEnvConfig()
	logger := newLogger(env, os.Stderr)
	env.warnings.log(logger)

	rootCmd := newRootCmd(&app{env: env, logger: logger})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "spongekit: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "spongekit",
		Short:         "Green-roof stormwater scenario engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(a.runCmd())
	rootCmd.AddCommand(a.selectCmd())
	rootCmd.AddCommand(a.presetsCmd())
	rootCmd.AddCommand(a.serveCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the spongekit version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spongekit %s\n", version)
		},
	}
}
