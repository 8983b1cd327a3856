package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lingofyra/transcache"
	"github.com/lingofyra/transcache/cache"
)

type batchOptions struct {
	dryRun     bool
	jsonOutput bool
	exportPath string
	importPath string
}

func newBatchCmd(a *app) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Translate a file with one text per line (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := readLines(a, args[0])
			if err != nil {
				return err
			}
			return runBatch(cmd, a, opts, lines)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show what would be fetched without calling the provider")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "output results as JSON")
	cmd.Flags().StringVar(&opts.exportPath, "export", "", "write a cache snapshot to this file afterwards (in-memory cache only)")
	cmd.Flags().StringVar(&opts.importPath, "import", "", "warm the cache from a snapshot before translating")
	return cmd
}

func readLines(a *app, path string) ([]string, error) {
	var r io.Reader = a.stdin
	if path != "-" {
		f, err := os.Open(path) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

func runBatch(cmd *cobra.Command, a *app, opts *batchOptions, lines []string) error {
	if opts.importPath != "" {
		res, err := cache.NewImporter(a.cache).ImportFromFile(opts.importPath)
		if err != nil {
			return fmt.Errorf("importing cache: %w", err)
		}
		a.progress("Imported %d entries (%d skipped, %d failed)\n", res.Imported, res.Skipped, res.Failed)
	}

	items := make([]transcache.Item, len(lines))
	for i, line := range lines {
		items[i] = transcache.Item{Text: line, SourceLang: a.cfg.SourceLang, TargetLang: a.cfg.TargetLang}
	}

	if opts.dryRun {
		return printPlan(a, a.coord.Plan(items), opts.jsonOutput)
	}

	start := time.Now()
	results := a.coord.ResolveAll(cmd.Context(), items)
	elapsed := time.Since(start)

	if opts.jsonOutput {
		type row struct {
			Text        string `json:"text"`
			Translation string `json:"translation"`
		}
		rows := make([]row, len(lines))
		for i := range lines {
			rows[i] = row{Text: lines[i], Translation: results[i]}
		}
		out := map[string]interface{}{
			"source_lang": a.cfg.SourceLang,
			"target_lang": a.cfg.TargetLang,
			"results":     rows,
			"stats":       a.coord.Stats(),
			"elapsed_ms":  elapsed.Milliseconds(),
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			fmt.Fprintln(a.stdout, r)
		}
		s := a.coord.Stats()
		a.progress("Resolved %d texts in %v: %d fetched, %d cached, %d shared, %d unchanged, %d fell back\n",
			len(results), elapsed.Round(time.Millisecond), s.Fetches, s.Hits, s.Shared, s.Passthrough, s.Fallbacks)
	}

	if opts.exportPath != "" {
		mem, ok := a.cache.(*cache.Memory)
		if !ok {
			return fmt.Errorf("--export needs the in-memory cache (redis.url is set)")
		}
		meta := map[string]string{"source_lang": a.cfg.SourceLang, "target_lang": a.cfg.TargetLang}
		if err := cache.NewExporter(mem).ExportToFile(opts.exportPath, meta); err != nil {
			return fmt.Errorf("exporting cache: %w", err)
		}
		a.progress("Exported %d entries to %s\n", mem.Len(), opts.exportPath)
	}
	return nil
}

func printPlan(a *app, plan *transcache.PlanResult, jsonOut bool) error {
	stats := plan.Stats()

	if jsonOut {
		pending := make([]string, len(plan.Pending))
		for i, item := range plan.Pending {
			pending[i] = item.Text
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"dry_run":     true,
			"passthrough": stats.Passthrough,
			"cached":      stats.Cached,
			"pending":     pending,
			"duplicates":  stats.Duplicates,
		})
	}

	fmt.Fprintf(a.stdout, "Dry run: %s -> %s\n", a.cfg.SourceLang, a.cfg.TargetLang)
	fmt.Fprintf(a.stdout, "  unchanged:  %d\n", stats.Passthrough)
	fmt.Fprintf(a.stdout, "  cached:     %d\n", stats.Cached)
	fmt.Fprintf(a.stdout, "  to fetch:   %d\n", stats.Pending)
	fmt.Fprintf(a.stdout, "  duplicates: %d\n", stats.Duplicates)
	for _, item := range plan.Pending {
		text := item.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(a.stdout, "    %q\n", text)
	}
	return nil
}
