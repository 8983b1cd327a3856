package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lingofyra/transcache/dictionary"
)

func newDefineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "define <word>",
		Short: "Look up an English word and show it in the target language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := dictionary.NewClient(dictionary.Config{
				BaseURL: a.cfg.Dictionary.BaseURL,
				Logger:  a.logger,
			})

			res, err := dictionary.Bilingual(cmd.Context(), client, a.coord, args[0], a.cfg.TargetLang)
			if err != nil {
				return err
			}

			e := res.Entry
			w := a.stdout
			fmt.Fprintf(w, "%s", e.Word)
			if p := e.Phonetic(); p != "" {
				fmt.Fprintf(w, "  %s", p)
			}
			fmt.Fprintf(w, "\n%s: %s\n", res.TargetLang, res.Word)
			fmt.Fprintf(w, "\n%s\n%s\n", e.PrimaryDefinition(), res.Definition)
			if ex := e.FirstExample(); ex != "" {
				fmt.Fprintf(w, "\n\"%s\"\n%s\n", ex, res.Example)
			}

			if len(e.Meanings) > 0 {
				fmt.Fprintln(w)
				for _, m := range e.Meanings {
					if len(m.Definitions) == 0 {
						continue
					}
					fmt.Fprintf(w, "[%s] %s\n", m.PartOfSpeech, m.Definitions[0].Definition)
				}
			}
			if syns := e.Synonyms(5); len(syns) > 0 {
				fmt.Fprintf(w, "\nsynonyms: %s\n", strings.Join(syns, ", "))
			}
			return nil
		},
	}
}
