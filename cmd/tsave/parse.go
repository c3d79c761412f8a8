package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/titansave/internal/render"
	"github.com/Zuo-Peng/titansave/internal/savefile"
)

// errInvalidSave is returned when a file has no checksum line.
var errInvalidSave = errors.New("invalid save (no checksum line)")

// saveView is the serialized form of a parsed save.
type saveView struct {
	savefile.ParsedSave `yaml:",inline"`
	TimePlayedSeconds   int64 `json:"time_played_seconds" yaml:"time_played_seconds"`
}

func parseCmd() *cobra.Command {
	var format string
	var strict bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a single save file and print its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			save, err := savefile.Load(args[0], parseOptions(cfg, strict)...)
			if err != nil {
				return err
			}

			if err := writeSave(cmd.OutOrStdout(), format, save); err != nil {
				return err
			}
			if !save.Valid {
				return errInvalidSave
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject Titan elements that precede Kills")

	return cmd
}

func writeSave(w io.Writer, format string, save *savefile.ParsedSave) error {
	view := saveView{
		ParsedSave:        *save,
		TimePlayedSeconds: int64(save.TimePlayed().Seconds()),
	}

	switch format {
	case "text":
		_, err := io.WriteString(w, render.RenderSave(filepath.Base(save.Path), save, render.Options{NoColor: true}))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
