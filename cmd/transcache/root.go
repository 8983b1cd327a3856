package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lingofyra/transcache"
	"github.com/lingofyra/transcache/cache"
	"github.com/lingofyra/transcache/config"
	"github.com/lingofyra/transcache/telemetry"
)

// app holds what every subcommand shares once the config is loaded.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v       *viper.Viper
	cfgFile string
	quiet   bool

	cfg    *config.Config
	logger *slog.Logger
	cache  cache.Cache
	coord  *transcache.Coordinator

	cleanups []func()
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		v:      config.New(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "transcache",
		Short: transcache.Description,
		Long: `transcache resolves translations through a shared, insert-only cache.

Every text is fetched from the provider at most once per language pair;
concurrent requests for the same text share one fetch, and a failed fetch
falls back to the original text.

Examples:
  transcache translate --to hi hello
  transcache batch --to fr words.txt --export cache.json
  transcache define --to hi serendipity
  transcache html --to ar page.html -o page.ar.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsSetup(cmd) {
				return nil
			}
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.transcache.yaml)")
	flags.String("from", "", "source language (default \"en\")")
	flags.String("to", "", "target language (default \"hi\")")
	flags.String("provider", "", "translation provider: google, openai, gemini, mock (default \"google\")")
	flags.String("log-level", "", "log level: debug, info, warn, error (default \"info\")")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress progress output")

	a.v.BindPFlag("source_lang", flags.Lookup("from"))
	a.v.BindPFlag("target_lang", flags.Lookup("to"))
	a.v.BindPFlag("provider", flags.Lookup("provider"))
	a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		newTranslateCmd(a),
		newBatchCmd(a),
		newDefineCmd(a),
		newHTMLCmd(a),
		newVersionCmd(a),
	)
	return root
}

func needsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// setup loads the config and builds the logger, telemetry, cache and
// coordinator.
func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, closeLog, err := telemetry.InitLogger(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger
	a.cleanups = append(a.cleanups, func() { closeLog() })

	opts := []transcache.Option{
		transcache.WithLogger(logger),
		transcache.WithTimeout(cfg.Timeout),
		transcache.WithBatchLimit(cfg.BatchLimit),
	}

	if cfg.Telemetry.Enabled {
		tracer, meter, shutdown, err := telemetry.InitTelemetry(ctx, cfg.Telemetry)
		if err != nil {
			return err
		}
		a.cleanups = append(a.cleanups, shutdown)
		opts = append(opts, transcache.WithTracer(tracer), transcache.WithMeter(meter))
	}

	c, closeCache, err := buildCache(cfg, logger)
	if err != nil {
		return err
	}
	a.cache = c
	a.cleanups = append(a.cleanups, closeCache)
	opts = append(opts, transcache.WithCache(c))

	p, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}

	a.coord = transcache.NewCoordinator(p, opts...)
	logger.Debug("coordinator ready",
		"provider", cfg.Provider,
		"source_lang", cfg.SourceLang,
		"target_lang", cfg.TargetLang,
		"redis", cfg.Redis.URL != "",
	)
	return nil
}

// close runs cleanups in reverse order.
func (a *app) close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

// progress prints to stderr unless --quiet is set.
func (a *app) progress(format string, args ...interface{}) {
	if a.quiet {
		return
	}
	fmt.Fprintf(a.stderr, format, args...)
}
