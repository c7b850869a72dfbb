package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smdata-dev/smdata/internal/build"
	"github.com/smdata-dev/smdata/internal/config"
)

// NewRootCmd builds the command tree around cfg.
func NewRootCmd(cfg *config.AppConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "smdata",
		Short:         "smdata.dev website and contact form service",
		Long:          "Serves the smdata.dev pages and contact form, stores submissions and relays them by email.",
		Version:       build.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewWebCmd(cfg))
	root.AddCommand(NewSubmissionsCmd(cfg))
	root.AddCommand(NewNotifyTestCmd(cfg))
	root.AddCommand(NewUpdateCmd())
	return root
}

// Execute loads configuration and runs the root command.
func Execute() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
