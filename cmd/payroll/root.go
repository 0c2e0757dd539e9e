package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/payroll-engine/config"
)

var rootCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Per-employee payroll computation engine",
	Long: `Computes pay breakdowns from punch-clock attendance, an employee calendar
and numbered payroll rules. Run it as an HTTP service (serve) or on a single
input bundle (calc).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file (missing file is ignored)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		if _, err := config.ParseLevel(lvl); err != nil {
			return nil, err
		}
		cfg.App.LogLevel = lvl
	}
	return cfg, nil
}

// cliLogger logs human-readable text to stderr.
func cliLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
