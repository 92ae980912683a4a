package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kevinmichaelchen/gepeto/internal/config"
	"github.com/kevinmichaelchen/gepeto/internal/llm"
	"github.com/kevinmichaelchen/gepeto/internal/pipeline"
	"github.com/kevinmichaelchen/gepeto/internal/prompt"
	"github.com/kevinmichaelchen/gepeto/internal/scan"
	"github.com/kevinmichaelchen/gepeto/internal/surrealdb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Usage and configuration errors exit with this status. Everything else the
// analyzer reports through its JSON output.
const exitUsage = 2

type app struct {
	cfg *config.Config
	log zerolog.Logger

	promptFile string
	ignoreDirs []string
	record     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status. The analyze
// and batch commands print {} on usage or configuration errors so their
// stdout always parses.
func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()
	a := &app{cfg: cfg, log: newLogger(cfg.LogLevel, stderr)}

	root := &cobra.Command{
		Use:           "gepeto <repo-path> <api-key> <provider>",
		Short:         "Describe how to install and run a repository as a Pinokio script",
		Long:          "Scans a repository, asks gemini (falling back to openai on quota errors) or openai for an install/run descriptor, and prints it as one JSON line.",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runAnalyze,
	}
	root.PersistentFlags().StringVar(&a.promptFile, "prompt-file", "", "YAML file overriding the system/task/schema instructions")
	root.PersistentFlags().StringSliceVar(&a.ignoreDirs, "ignore-dir", nil, "Directory name to skip while scanning (repeatable)")
	root.PersistentFlags().BoolVar(&a.record, "record", false, "Store results in SurrealDB (needs SURREAL_URL)")

	batch := a.batchCmd()
	root.AddCommand(batch, a.schemaCmd(), a.historyCmd())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	a.log.Error().Err(err).Str("command", cmd.Name()).Msg("command failed")
	switch cmd {
	case root, batch:
		fmt.Fprintln(stdout, "{}")
		return exitUsage
	default:
		return 1
	}
}

func newLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().Timestamp().Logger()
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoPath, apiKey := args[0], args[1]

	analyzer, closeFn, err := a.newAnalyzer(ctx, apiKey, args[2])
	if err != nil {
		return err
	}
	defer closeFn()

	return analyzer.Run(ctx, cmd.OutOrStdout(), repoPath)
}

func (a *app) batchCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch <api-key> <provider> <repo-path>...",
		Short: "Analyze several repositories, one JSON line per repository",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			analyzer, closeFn, err := a.newAnalyzer(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			defer closeFn()

			return analyzer.Batch(ctx, cmd.OutOrStdout(), args[2:], concurrency)
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Repositories analyzed at once")
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Initialize/update the SurrealDB history schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			db, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			if err := db.InitSchema(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema initialized")
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("-n must be at least 1, got %d", n)
			}
			ctx := context.Background()

			db, err := a.openHistory(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			recs, err := db.RecentAnalyses(ctx, n)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "No analyses recorded")
				return nil
			}
			for i, r := range recs {
				via := r.Provider
				if r.FellBack {
					via += " (fallback)"
				}
				fmt.Fprintf(out, "%d. %s  %s  via %s\n", i+1, r.RepoPath, r.CreatedAt, via)
				if r.Description != "" {
					fmt.Fprintf(out, "   %s\n", r.Description)
				}
				fmt.Fprintf(out, "   install: %s\n", r.InstallScript)
				fmt.Fprintf(out, "   start:   %s\n", r.StartScript)
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 10, "Number of records")
	return cmd
}

// newAnalyzer validates the provider before anything touches the network.
// The returned func releases the history connection, if one was opened.
func (a *app) newAnalyzer(ctx context.Context, apiKey, provider string) (*pipeline.Analyzer, func(), error) {
	kind, err := llm.ParseKind(provider)
	if err != nil {
		return nil, nil, err
	}

	tmpl := prompt.Default()
	if a.promptFile != "" {
		if tmpl, err = prompt.Load(a.promptFile); err != nil {
			return nil, nil, err
		}
	}

	secondaryKey := apiKey
	if a.cfg.OpenAIAPIKey != "" {
		secondaryKey = a.cfg.OpenAIAPIKey
	}
	client := llm.NewClient(kind,
		llm.NewGeminiProvider(a.cfg.GeminiEndpoint, apiKey),
		llm.NewOpenAIProvider(a.cfg.OpenAIBaseURL, secondaryKey, a.cfg.OpenAIModel),
		a.log)

	opts := pipeline.Options{
		Template: tmpl,
		Scan:     scan.Options{IgnoreDirs: a.ignoreDirs},
	}
	closeFn := func() {}
	if a.record {
		if db, err := a.openHistory(ctx); err != nil {
			a.log.Warn().Err(err).Msg("recording disabled")
		} else {
			opts.Recorder = db
			closeFn = func() { _ = db.Close(ctx) }
		}
	}

	return pipeline.New(client, opts, a.log), closeFn, nil
}

func (a *app) openHistory(ctx context.Context) (*surrealdb.Client, error) {
	if !a.cfg.HistoryEnabled() {
		return nil, fmt.Errorf("SURREAL_URL is not set")
	}
	return surrealdb.NewClient(ctx, a.cfg)
}
