package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rodrigues2k/fluent-selenium"
	"github.com/rodrigues2k/fluent-selenium/internal/presentation/tui"
	"github.com/rodrigues2k/fluent-selenium/internal/script"
	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/htmldoc"
	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/redis"
	"github.com/rodrigues2k/fluent-selenium/pkg/observability"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a chain script against an HTML document",
	Long: `Loads an HTML document and a YAML chain script, runs the script and prints
the journal and the values read. In playback mode the chain is recorded first
and replayed against the document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		docPath, _ := cmd.Flags().GetString("doc")
		scriptPath, _ := cmd.Flags().GetString("script")
		modeName, _ := cmd.Flags().GetString("mode")
		pretty, _ := cmd.Flags().GetBool("pretty")
		if cmd.Flags().Changed("redis") {
			cfg.Journal.Redis, _ = cmd.Flags().GetString("redis")
		}

		mode, err := script.ParseMode(modeName)
		if err != nil {
			return err
		}
		doc, err := openDocument(docPath)
		if err != nil {
			return err
		}
		s, err := script.Load(scriptPath)
		if err != nil {
			return err
		}

		opts := script.Options{
			Mode: mode,
			Chain: []fluent.Option{
				fluent.WithContext(cmd.Context()),
				fluent.WithLogger(logger),
				fluent.WithRetryPolicy(cfg.Retry),
				fluent.WithHooks(observability.LogHooks(logger)),
			},
		}
		if cfg.Journal.Redis != "" {
			sink := redis.New(cfg.Journal.Redis, "", 0, cfg.Journal.Key,
				redis.WithTTL(cfg.Journal.TTL), redis.WithContext(cmd.Context()))
			defer sink.Close()
			opts.Journal = sink
			logger.Info("Journaling to Redis", "addr", cfg.Journal.Redis, "key", cfg.Journal.Key)
		}

		report, err := script.Execute(doc, s, opts)
		if report != nil {
			if perr := printReport(cmd.OutOrStdout(), report, pretty); perr != nil {
				return perr
			}
		}
		return err
	},
}

func openDocument(path string) (*htmldoc.Document, error) {
	if path == "" {
		return nil, errors.New("--doc is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()
	return htmldoc.Parse(f)
}

func printReport(w io.Writer, report *script.Report, pretty bool) error {
	if !pretty || !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := io.WriteString(w, tui.Plain(report))
		return err
	}
	render, err := tui.NewRenderer()
	if err != nil {
		return err
	}
	out, err := render(tui.Markdown(report))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("doc", "", "HTML document to run against")
	runCmd.Flags().StringP("script", "s", "chain.yaml", "YAML chain script")
	runCmd.Flags().StringP("mode", "m", "immediate", "Execution mode: 'immediate' or 'playback'")
	runCmd.Flags().Bool("pretty", false, "Render the report as markdown when stdout is a terminal")
	runCmd.Flags().String("redis", "", "Also push journal lines to this Redis address")
}
