package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kdcar/kdcar-backend/internal/carms"
	"github.com/kdcar/kdcar-backend/internal/inventory"
	"github.com/kdcar/kdcar-backend/pkg/config"
	"github.com/kdcar/kdcar-backend/pkg/logger"
)

type rootOptions struct {
	timeout  time.Duration
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "inventoryctl",
		Short:         "Inspect the KD-CAR inventory",
		Long:          "inventoryctl checks the fallback catalog and queries the inventory the same way the API does, printing the JSON envelopes it would serve.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall command timeout")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(
		newValidateCmd(opts),
		newListCmd(opts),
		newGetCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "inventoryctl",
		Level:       logger.ParseLevel(o.logLevel),
		Output:      cmd.ErrOrStderr(),
		Format:      "console",
	})
}

func (o *rootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

// service builds the inventory facade from the environment, like cmd/api.
func (o *rootOptions) service(ctx context.Context, logg *logger.Logger) (inventory.Service, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	catalog, err := inventory.LoadCatalog(ctx, cfg.Catalog.Path, time.Now(), logg)
	if err != nil {
		return nil, err
	}

	client := carms.NewClient(
		carms.Config{BaseURL: cfg.Carms.BaseURL, APIKey: cfg.Carms.APIKey},
		carms.WithLogger(logg),
	)
	return inventory.NewService(client, catalog, logg, nil)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
