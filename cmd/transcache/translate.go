package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newTranslateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate one text (read from stdin when no argument is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(a.stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = strings.TrimRight(string(data), "\r\n")
			}

			translated := a.coord.Resolve(cmd.Context(), text, a.cfg.SourceLang, a.cfg.TargetLang)
			fmt.Fprintln(a.stdout, translated)

			if a.coord.Stats().Fallbacks > 0 {
				a.progress("warning: translation failed, printed the original text\n")
			}
			return nil
		},
	}
}
