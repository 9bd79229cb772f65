package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/commons"
	"storefront/internal/config"
	"storefront/internal/infrastructure/logger"
	"storefront/internal/product/repository"
)

var (
	configPath string
	envFile    string
	driver     string
)

var rootCmd = &cobra.Command{
	Use:   "seed <products.json>",
	Short: "Load a product catalog export into the configured store",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeed,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "internal/config/config.yaml", "path to the YAML config file")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	rootCmd.Flags().StringVar(&driver, "driver", "", "store driver override (mongo or mysql)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := commons.LoadConfig(configPath, envFile)
	if err != nil {
		return err
	}
	if driver != "" {
		cfg.Store.Driver = driver
	}
	if cfg.Store.Driver == config.DriverMemory {
		return errors.New("memory driver has nothing to seed; point store.seedFile at the export instead")
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer zapLogger.Sync()

	products, err := repository.ReadSeedFile(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, closeStore, err := commons.OpenStore(ctx, cfg, zapLogger)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	defer closeStore()

	inserted, err := store.InsertMany(ctx, products)
	if err != nil {
		return fmt.Errorf("inserting products: %w", err)
	}

	zapLogger.Info("catalog seeded",
		zap.String("driver", cfg.Store.Driver),
		zap.String("file", args[0]),
		zap.Int("inserted", inserted),
	)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
