package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ShopEase/internal/auth"
	"ShopEase/internal/catalog"
	"ShopEase/internal/config"
	"ShopEase/internal/docstore"
	"ShopEase/internal/gateway"
	"ShopEase/pkg/kit"
)

const service = "shopease"

func main() {
	cmd := "serve"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(args)
	case "export":
		err = export(args)
	default:
		err = fmt.Errorf("unknown command %q (want serve or export)", cmd)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	cfgPath := fs.String("config", os.Getenv("SHOPEASE_CONFIG"), "path to YAML config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	reg := prometheus.NewRegistry()

	docs, err := openDocs(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer func() { _ = docs.Close() }()

	authStore, err := auth.NewStore(ctx, docs,
		auth.WithHasher(auth.NewBcryptHasher(cfg.Auth.BcryptCost)),
		auth.WithLogger(log),
	)
	if err != nil {
		log.Error("init auth store failed", zap.Error(err))
		return err
	}
	catalogStore, err := catalog.NewStore(ctx, docs, log)
	if err != nil {
		log.Error("init catalog store failed", zap.Error(err))
		return err
	}

	h := gateway.NewHandler(gateway.Deps{
		Auth:    authStore,
		Catalog: catalogStore,
		JWT:     auth.NewTokenMaker(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
	}, gateway.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}

// export writes one shop's inventory to a CSV file without starting the server.
func export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	cfgPath := fs.String("config", os.Getenv("SHOPEASE_CONFIG"), "path to YAML config")
	shop := fs.String("shop", "", "shop name")
	out := fs.String("out", "inventory.csv", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*shop) == "" {
		return errors.New("export: -shop is required")
	}

	// no tokens are issued offline, so the JWT secret is not required
	cfg, err := config.Read(*cfgPath)
	if err != nil {
		return err
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	docs, err := openDocs(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = docs.Close() }()

	store, err := catalog.NewStore(ctx, docs, log)
	if err != nil {
		return err
	}

	path := *out
	if !strings.HasSuffix(strings.ToLower(path), ".csv") {
		path += ".csv"
	}
	if err := store.ExportInventory(*shop, path); err != nil {
		return err
	}
	log.Info("inventory exported", zap.String("shop", *shop), zap.String("path", path))
	return nil
}

func openDocs(ctx context.Context, cfg config.Config, reg prometheus.Registerer) (docstore.Store, error) {
	docs, err := docstore.Open(ctx, cfg.Store.Driver, cfg.DataDir, cfg.Store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	if reg != nil {
		docs = docstore.Instrument(docs, reg)
	}
	return docs, nil
}
