// Package main is the catalog service binary: the HTTP API, schema
// migration and one-off variant generation.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	// Registers the "postgres" database/sql driver for DB_DRIVER=postgres.
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/italianshoes/catalog/app/auth"
	"github.com/italianshoes/catalog/app/config"
	"github.com/italianshoes/catalog/app/database"
	"github.com/italianshoes/catalog/app/logging"
	"github.com/italianshoes/catalog/app/server"
	"github.com/italianshoes/catalog/app/settings"
	"github.com/italianshoes/catalog/app/variants"
	"github.com/italianshoes/catalog/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "catalog",
		Short:         "Footwear catalog service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(serveCmd(), migrateCmd(), variantsCmd())
	return cmd
}

// env is what every subcommand starts from.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func setup() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
	_ = e.logger.Sync()
}

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			if migrate {
				if err := models.AutoMigrate(e.db); err != nil {
					return fmt.Errorf("migrating: %w", err)
				}
			}

			var store settings.Store
			switch e.cfg.SettingsStore {
			case config.SettingsStoreMemory:
				e.logger.Warn("settings are kept in process memory and are not shared between instances")
				store = settings.NewMemoryStore()
			default:
				store = models.NewSettingsRepository(e.db)
			}
			if e.cfg.AdminToken == "" {
				e.logger.Warn("ADMIN_TOKEN is empty, admin routes will reject every request")
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			handler := server.NewRouter(server.Deps{
				DB:            e.db,
				SettingsStore: store,
				Authorizer:    auth.NewTokenAuthorizer(e.cfg.AdminToken),
				Registry:      registry,
				Logger:        e.logger,
			})

			return server.Run(cmd.Context(), e.cfg.HTTPAddr, handler, e.logger)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Run schema migrations before serving")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			if err := models.AutoMigrate(e.db); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}
			e.logger.Info("schema up to date")
			return nil
		},
	}
}

func variantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Variant maintenance",
	}

	var (
		product   string
		codes     string
		prefix    string
		price     int64
		maxCombos int
	)
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Create the missing variants of a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			req := variants.Request{
				ProductID:   product,
				OptionCodes: splitCodes(codes),
				SKUPrefix:   prefix,
			}
			if cmd.Flags().Changed("price") {
				req.PriceOverride = &price
			}

			return runGenerate(cmd.Context(), models.NewVariantsRepository(e.db), e.logger, req, maxCombos, cmd.OutOrStdout())
		},
	}
	generate.Flags().StringVar(&product, "product", "", "Product id or handle")
	generate.Flags().StringVar(&codes, "options", "", "Comma separated option codes, e.g. size,color")
	generate.Flags().StringVar(&prefix, "prefix", variants.DefaultSKUPrefix, "SKU prefix")
	generate.Flags().Int64Var(&price, "price", 0, "Price override in minor units")
	generate.Flags().IntVar(&maxCombos, "max-combinations", variants.DefaultMaxCombinations, "Refuse larger expansions, 0 for no limit")
	_ = generate.MarkFlagRequired("product")
	_ = generate.MarkFlagRequired("options")

	cmd.AddCommand(generate)
	return cmd
}

// runGenerate stops with ctx, so an interrupt ends the run after the
// combination in flight.
func runGenerate(ctx context.Context, store variants.Store, logger *zap.Logger, req variants.Request, maxCombos int, out io.Writer) error {
	gen := variants.NewGenerator(store,
		variants.WithLogger(logger),
		variants.WithMaxCombinations(maxCombos),
	)
	res, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "combinations=%d created=%d existing=%d\n", res.Combinations, res.Created, res.Existing)
	return nil
}

func splitCodes(s string) []string {
	var codes []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}
