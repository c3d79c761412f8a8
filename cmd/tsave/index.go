package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/titansave/internal/index"
)

func indexCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Scan save roots and index every save file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "Scanning roots...\n")
			for _, root := range cfg.SaveRoots {
				fmt.Fprintf(errOut, "  %s\n", root)
			}

			stats, err := index.IndexAll(db, cfg.SaveRoots, cfg.Extensions, parseOptions(cfg, strict)...)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(errOut, "Done. %s\n", stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Reject Titan elements that precede Kills")

	return cmd
}
