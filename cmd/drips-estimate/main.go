package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dripsnetwork/sdk-go/core/cycle"
	"github.com/dripsnetwork/sdk-go/core/dripsclient"
	"github.com/dripsnetwork/sdk-go/core/logging"
	"github.com/dripsnetwork/sdk-go/core/queryapi"
	"github.com/dripsnetwork/sdk-go/core/source"
	"github.com/dripsnetwork/sdk-go/core/util"
	"go.uber.org/zap"
)

const usage = `usage:
  drips-estimate estimate [account-id...]   print estimates as JSON (all accounts when none given)
  drips-estimate serve                      serve the query API on $ADDR

environment:
  DRIPS_SNAPSHOT        path of the JSON history snapshot (required)
  DRIPS_CYCLE_SECS      cycle length in seconds (default 604800)
  DRIPS_TOKEN_DECIMALS  token decimals for formatted totals (optional)
  DRIPS_MAX_WORKERS     accounts estimated concurrently (default 8)
  ADDR                  listen address for serve (default :3001)
  LOG_LEVEL, LOG_ENCODING`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logging.SetLogger(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	snapshotPath := util.Env("DRIPS_SNAPSHOT", "")
	if snapshotPath == "" {
		logger.Fatal("DRIPS_SNAPSHOT is not set")
	}
	src, err := source.LoadSnapshotFile(snapshotPath)
	if err != nil {
		logger.Fatal("Unable to load snapshot", zap.String("path", snapshotPath), zap.Error(err))
	}

	client, err := dripsclient.NewClient(
		dripsclient.WithHistorySource(src),
		dripsclient.WithCycleResolver(cycle.NewResolver(int64(util.EnvInt("DRIPS_CYCLE_SECS", int(cycle.DefaultCycleSecs))))),
		dripsclient.WithMaxWorkers(util.EnvInt("DRIPS_MAX_WORKERS", 8)),
		dripsclient.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("Unable to initialize client", zap.Error(err))
	}

	switch os.Args[1] {
	case "estimate":
		ids := os.Args[2:]
		if len(ids) == 0 {
			ids = src.AccountIDs()
		}
		if err := printEstimates(ctx, client, ids); err != nil {
			logger.Fatal("Estimation failed", zap.Error(err))
		}
	case "serve":
		serve(ctx, logger, client)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func tokenDecimals() *int32 {
	if util.Env("DRIPS_TOKEN_DECIMALS", "") == "" {
		return nil
	}
	d := int32(util.EnvInt("DRIPS_TOKEN_DECIMALS", 0))
	return &d
}

func printEstimates(ctx context.Context, client *dripsclient.Client, ids []string) error {
	estimates, err := client.EstimateAccounts(ctx, ids)
	if err != nil {
		return err
	}

	decimals := tokenDecimals()
	out := make([]queryapi.AccountEstimateResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, queryapi.NewAccountEstimateResponse(id, estimates[id], decimals))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func serve(ctx context.Context, logger *zap.Logger, client *dripsclient.Client) {
	// use <ip>:<port> to bind to a specific interface or :<port> to bind to all interfaces
	addr := util.Env("ADDR", ":3001")
	router := queryapi.NewController(client, logger).NewRouter()
	server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
