package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lingofyra/transcache/processor"
)

func newHTMLCmd(a *app) *cobra.Command {
	var output string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "html [file]",
		Short: "Translate the text of an HTML document (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			var err error
			if len(args) == 0 || args[0] == "-" {
				input, err = io.ReadAll(a.stdin)
			} else {
				input, err = os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			start := time.Now()
			result, err := processor.NewHTMLProcessor().Translate(cmd.Context(), a.coord, string(input), a.cfg.SourceLang, a.cfg.TargetLang)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			if jsonOutput {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"content":        result.Content,
					"source_lang":    result.SourceLang,
					"target_lang":    result.TargetLang,
					"total_nodes":    result.TotalNodes,
					"distinct_texts": result.DistinctTexts,
					"translated":     result.Translated,
					"elapsed_ms":     elapsed.Milliseconds(),
				})
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(result.Content), 0644); err != nil {
					return fmt.Errorf("writing output: %w", err)
				}
			} else {
				fmt.Fprint(a.stdout, result.Content)
			}

			a.progress("Translated %d of %d distinct texts (%d nodes) in %v\n",
				result.Translated, result.DistinctTexts, result.TotalNodes, elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output result as JSON")
	return cmd
}
