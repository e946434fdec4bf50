package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chrisdamba/foodmatch/internal/logger"
	"github.com/chrisdamba/foodmatch/internal/models"
	"github.com/chrisdamba/foodmatch/internal/simulator"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "foodmatch",
	Short: "Simulates matching prepared food orders with delivery drivers",
	Long: `foodmatch replays an order data file against a simulated kitchen: every order takes its
preparation time, a driver is dispatched for it with a random pickup delay, and orders are
handed to drivers either strictly by assignment (matched mode) or first come, first served.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		log := logger.New(cfg.LogLevel, cfg.LogFormat)
		sim := simulator.NewSimulator(cfg, simulator.WithLogger(log))

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		stop := watchSignals(sim, cancel)
		defer stop()

		_, err = sim.Run(ctx)
		return err
	},
}

// flagBindings maps config keys to root command flags.
var flagBindings = map[string]string{
	"match_driver_w_order": "match-driver-with-order",
	"orders_file":          "orders-file",
	"order_interval":       "order-interval",
	"min_pickup_delay":     "min-pickup-delay",
	"max_pickup_delay":     "max-pickup-delay",
	"seed":                 "seed",
	"virtual_time":         "virtual-time",
	"start_date":           "start-date",
	"progress":             "progress",
	"log_level":            "log-level",
	"log_format":           "log-format",
	"output_format":        "output-format",
	"output_path":          "output-path",
	"output_folder":        "output-folder",
	"kafka_enabled":        "kafka-enabled",
	"kafka_broker_list":    "kafka-broker-list",
	"database.dsn":         "database-dsn",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.json)")

	flags := rootCmd.Flags()
	flags.Bool("match-driver-with-order", false, "Pair each order only with the driver dispatched for it")
	flags.String("orders-file", "./orders-data.json", "Order data file (JSON array of {id, name, fulfilTime})")
	flags.Duration("order-interval", 500*time.Millisecond, "Delay between two received orders")
	flags.Float64("min-pickup-delay", 3, "Minimum driver pickup delay in seconds")
	flags.Float64("max-pickup-delay", 15, "Maximum driver pickup delay in seconds")
	flags.Int64("seed", 0, "Random seed for driver delays (0 uses the current time)")
	flags.Bool("virtual-time", false, "Run on a simulated clock instead of waiting in real time")
	flags.String("start-date", "", "Simulated clock origin, RFC3339 (virtual time only)")
	flags.Bool("progress", false, "Show a delivery progress bar")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.String("output-format", models.OutputConsole, "Event export: console, json, csv, parquet, postgres, none")
	flags.String("output-path", "", "Base path for file exports")
	flags.String("output-folder", "events", "Folder under output-path for file exports")
	flags.Bool("kafka-enabled", false, "Export events to Kafka")
	flags.String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	flags.String("database-dsn", "", "Postgres connection string for the postgres export")

	for key, name := range flagBindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(name)))
	}

	rootCmd.AddCommand(generateCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
