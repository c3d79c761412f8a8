package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/titansave/internal/config"
	"github.com/Zuo-Peng/titansave/internal/logging"
	"github.com/Zuo-Peng/titansave/internal/savefile"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tsave",
		Short:         "Titan Souls save inspector - parse, index and browse save files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(doctorCmd())

	return rootCmd
}

// setup loads the config and installs the logger.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Init("tsave", cfg.LogLevel)
	return cfg, nil
}

func parseOptions(cfg *config.Config, strict bool) []savefile.Option {
	if strict || cfg.StrictOrder {
		return []savefile.Option{savefile.WithStrictOrder()}
	}
	return nil
}
