// billingctl is a small operator CLI for the billing API: inspect accounts,
// plans, subscriptions and invoices, and drive subscription transitions.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/recurly-billing-client/pkg/client"
	"github.com/Sternrassler/recurly-billing-client/pkg/config"
	"github.com/redis/go-redis/v9"
)

var (
	cfgFile       string
	cfg           *config.Config
	logger        zerolog.Logger
	billingClient *client.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "billingctl",
	Short: "Inspect and manage billing accounts, plans and subscriptions",
	Long: `billingctl talks to the billing provider's XML API. It lists accounts,
plans, subscriptions and invoices, and can cancel or reactivate a
subscription.`,
	PersistentPreRunE: initializeApp,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(subscriptionsCmd)
	rootCmd.AddCommand(invoicesCmd)
}

// initializeApp loads the configuration and builds the billing client.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	clientCfg := client.Config{
		APIKey:    cfg.Billing.APIKey,
		BaseURL:   cfg.Billing.BaseURL,
		PageSize:  cfg.Billing.PageSize,
		Timeout:   cfg.Billing.Timeout,
		UserAgent: cfg.Billing.UserAgent,
	}

	if cfg.Redis.Enabled {
		clientCfg.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Shared rate limit state enabled")
	}

	billingClient, err = client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("failed to create billing client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
