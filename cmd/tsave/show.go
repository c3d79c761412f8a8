package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/titansave/internal/index"
	"github.com/Zuo-Peng/titansave/internal/render"
)

func showCmd() *cobra.Command {
	var width int
	var query string

	cmd := &cobra.Command{
		Use:   "show <saveKey>",
		Short: "Print the report of an indexed save",
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

			out, _, err := render.RenderIndexed(db, args[0], render.Options{
				Width:   width,
				Query:   query,
				NoColor: !term.IsTerminal(int(os.Stdout.Fd())),
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = no wrap)")
	cmd.Flags().StringVar(&query, "query", "", "Highlight bosses and keys matching this text")

	return cmd
}
