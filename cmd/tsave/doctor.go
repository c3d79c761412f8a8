package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/titansave/internal/index"
	"github.com/Zuo-Peng/titansave/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify save roots and DB, and show stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "=== Save roots ===")
			for _, root := range cfg.SaveRoots {
				checkDir(out, root)
			}

			fmt.Fprintln(out, "\n=== File Scan ===")
			files, err := scan.ScanRoots(cfg.SaveRoots, cfg.Extensions)
			if err != nil {
				fmt.Fprintf(out, "  scan error: %v\n", err)
			} else {
				fmt.Fprintf(out, "  Save files (%v): %d\n", cfg.Extensions, len(files))
			}

			fmt.Fprintln(out, "\n=== Database ===")
			fmt.Fprintf(out, "  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Fprintln(out, "  Status: NOT FOUND (run 'tsave index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			saveCount, err := db.SaveCount()
			if err != nil {
				return fmt.Errorf("count saves: %w", err)
			}
			validCount, err := db.ValidSaveCount()
			if err != nil {
				return fmt.Errorf("count valid saves: %w", err)
			}
			progressCount, err := db.ProgressCount()
			if err != nil {
				return fmt.Errorf("count progress: %w", err)
			}

			fmt.Fprintf(out, "  Saves:    %d (%d valid, %d invalid)\n", saveCount, validCount, saveCount-validCount)
			fmt.Fprintf(out, "  Progress: %d bosses/keys\n", progressCount)

			fmt.Fprintln(out, "\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM progress_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Fprintf(out, "  FTS5 error: %v\n", err)
			} else {
				fmt.Fprintf(out, "  FTS5 entries: %d\n", ftsCount)
				if ftsCount == progressCount {
					fmt.Fprintln(out, "  Status: OK (synced)")
				} else {
					fmt.Fprintf(out, "  Status: MISMATCH (progress=%d, fts=%d)\n", progressCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				sizeMB := float64(info.Size()) / 1024 / 1024
				fmt.Fprintf(out, "\n=== DB Size: %.1f MB ===\n", sizeMB)
			}

			return nil
		},
	}
}

func checkDir(out io.Writer, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Fprintf(out, "  %s (NOT FOUND)\n", path)
	} else if !info.IsDir() {
		fmt.Fprintf(out, "  %s (NOT A DIRECTORY)\n", path)
	} else {
		fmt.Fprintf(out, "  %s (OK)\n", path)
	}
}
