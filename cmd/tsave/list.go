package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/titansave/internal/index"
	"github.com/Zuo-Peng/titansave/internal/search"
	"github.com/Zuo-Peng/titansave/internal/tui"
)

func listCmd() *cobra.Command {
	var validOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all indexed saves, newest first",
		Long:  `Opens a TUI panel listing every indexed save by modification time (newest first). Type to filter by save key.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := index.IndexAll(db, cfg.SaveRoots, cfg.Extensions, parseOptions(cfg, false)...); err != nil {
				log.Warn().Err(err).Msg("refresh index")
			}

			opts := search.Options{
				ValidOnly: validOnly,
				Limit:     limit,
			}

			return tui.RunList(db, opts)
		},
	}

	cmd.Flags().BoolVar(&validOnly, "valid-only", false, "Hide saves without a checksum line")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max saves (0 = no limit)")

	return cmd
}
