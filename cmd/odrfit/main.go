package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"odrfit/internal/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errors.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "odrfit",
		Short:         "Orthogonal distance regression for data with errors on both axes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: odrfit.yaml in the working directory)")

	rootCmd.AddCommand(
		newModelsCmd(),
		newDemoCmd(&configPath),
	)
	return rootCmd
}
