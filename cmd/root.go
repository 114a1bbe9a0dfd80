package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/output"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "hotelsim",
	Short: "Simulates reservations and dynamic pricing for a small hotel",
	Long: `hotelsim is a CLI tool that simulates day by day booking demand for a fictional hotel,
prices every night with a revenue management engine and exports reservations, occupancy,
revenue analyses and price suggestions.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()

		if _, err := a.sim.Run(ctx); err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}

		summary, err := output.MarshalSummary(a.sim.Summary())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(summary))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, then $HOME/.hotelsim.yaml)")

	pf := rootCmd.PersistentFlags()
	pf.Int64("seed", 42, "Random seed for simulation")
	pf.Int("days", 90, "Number of days to simulate")
	pf.Int("requests-per-day", 15, "Reservation requests generated per simulated day")
	pf.String("start-date", "", "Start date for simulation (YYYY-MM-DD)")
	pf.String("format", "csv", "Export format: csv, json or parquet")
	pf.String("export-path", "./data/", "Directory for local exports")
	pf.Bool("weather", false, "Let weather influence demand")
	pf.Bool("progress", false, "Show a progress bar")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
}

// loadConfig reads .env, the config file and the environment, then applies explicitly set flags.
func loadConfig(cmd *cobra.Command) (*models.Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := models.LoadConfig(viper.New(), cfgFile)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *models.Config) error {
	flags := cmd.Flags()

	if flags.Changed("seed") {
		seed, _ := flags.GetInt64("seed")
		cfg.Simulation.RandomSeed = &seed
	}
	if flags.Changed("days") {
		cfg.Simulation.Days, _ = flags.GetInt("days")
	}
	if flags.Changed("requests-per-day") {
		cfg.Simulation.RequestsPerDay, _ = flags.GetInt("requests-per-day")
	}
	if flags.Changed("start-date") {
		raw, _ := flags.GetString("start-date")
		start, err := models.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("invalid --start-date %q: %w", raw, err)
		}
		cfg.Simulation.StartDate = start
	}
	if flags.Changed("format") {
		cfg.Data.Format, _ = flags.GetString("format")
	}
	if flags.Changed("export-path") {
		cfg.Data.ExportPath, _ = flags.GetString("export-path")
	}
	if flags.Changed("weather") {
		cfg.Weather.Enabled, _ = flags.GetBool("weather")
	}
	if flags.Changed("progress") {
		cfg.Simulation.ShowProgress, _ = flags.GetBool("progress")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	return nil
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "hotelsim",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
