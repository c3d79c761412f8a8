package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/titansave/internal/index"
	"github.com/Zuo-Peng/titansave/internal/search"
	"github.com/Zuo-Peng/titansave/internal/tui"
)

const (
	sColorReset = "\033[0m"
	sColorBoss  = "\033[1;32m"
	sColorKey   = "\033[1;33m"
	sColorDim   = "\033[2m"
)

func colorizeKind(kind string) string {
	switch kind {
	case index.KindBoss:
		return sColorBoss + kind + sColorReset
	case index.KindKey:
		return sColorKey + kind + sColorReset
	default:
		return kind
	}
}

func searchCmd() *cobra.Command {
	var kind string
	var validOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find saves by defeated boss or unlocked key",
		Long: `Search indexed saves by boss or key identifier. Plain words are prefix-matched;
anything else is a substring match. Output is TSV when stdout is not a terminal:
  saveKey, kind, ident, modified, filePath`,
		Args: cobra.ExactArgs(1),
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

			// Auto-update index before searching
			if _, err := index.IndexAll(db, cfg.SaveRoots, cfg.Extensions, parseOptions(cfg, false)...); err != nil {
				log.Warn().Err(err).Msg("refresh index")
			}

			opts := search.Options{
				Kind:      kind,
				ValidOnly: validOnly,
				Limit:     limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No results found.")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				ident := strings.ReplaceAll(r.Ident, "\t", " ")
				fmt.Fprintf(out, "%s\t%s\t%s\t%s%s%s\t%s\n",
					r.SaveKey,
					colorizeKind(r.Kind),
					ident,
					sColorDim, time.Unix(r.Mtime, 0).Format("2006-01-02 15:04"), sColorReset,
					r.FilePath,
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Restrict to boss or key")
	cmd.Flags().BoolVar(&validOnly, "valid-only", false, "Skip saves without a checksum line")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
