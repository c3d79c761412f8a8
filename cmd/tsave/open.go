package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/titansave/internal/index"
	"github.com/Zuo-Peng/titansave/internal/open"
)

func openCmd() *cobra.Command {
	var atChecksum bool

	cmd := &cobra.Command{
		Use:   "open <saveKey>",
		Short: "Open the save file in $EDITOR",
		Args:  cobra.ExactArgs(1),
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

			return open.OpenSave(db, args[0], atChecksum)
		},
	}

	cmd.Flags().BoolVar(&atChecksum, "checksum", false, "Jump to the checksum line")

	return cmd
}
