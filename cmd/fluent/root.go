package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rodrigues2k/fluent-selenium/internal/config"
	"github.com/rodrigues2k/fluent-selenium/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    = config.Default()
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "fluent",
	Short: "fluent runs element-locator chains against HTML documents",
	Long: `fluent applies chains of element-locator steps, written as YAML scripts,
to a document and prints the journal of every backend call they make.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		level, err := logging.ParseLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(level)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultFile+")")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}
