package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/txsociety/tonbridge/internal/config"
	"github.com/txsociety/tonbridge/pkg/api"
	"github.com/txsociety/tonbridge/pkg/blockchain"
	"github.com/txsociety/tonbridge/pkg/bridge"
	"github.com/txsociety/tonbridge/pkg/db"
	"github.com/txsociety/tonbridge/pkg/transport"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var Version = "dev"

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))
	slog.Info("running bridge service", "version", Version, "log level", cfg.LogLevel.String(), "testnet", cfg.Testnet)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	wg := new(sync.WaitGroup)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	dbClient, err := db.New(ctx, cfg.PostgresURI)
	if err != nil {
		slog.Error("db connection", "error", err)
		os.Exit(1)
	}
	cancel()
	defer dbClient.Close()

	ctx, cancel = context.WithCancel(context.Background())

	wallet, err := transport.NewClient(cfg.WalletEndpoint)
	if err != nil {
		slog.Error("wallet transport", "error", err)
		os.Exit(1)
	}

	bcClient, err := blockchain.New(cfg.LiteServers, cfg.Testnet)
	if err != nil {
		slog.Error("blockchain connection", "error", err)
		os.Exit(1)
	}
	bcClient.RunBlockWatcher(ctx, dbClient, wg)

	ctx1, cancel1 := context.WithTimeout(ctx, 60*time.Second)
	err = checkBridgeAccounts(ctx1, bcClient, cfg.JettonMaster, cfg.BridgeAddress)
	cancel1()
	if err != nil {
		slog.Error("check bridge accounts", "error", err)
		os.Exit(1)
	}

	service := bridge.New(wallet, dbClient, bcClient, bridge.Settings{
		JettonMaster: cfg.JettonMaster,
		Bridge:       cfg.BridgeAddress,
		BurnValue:    cfg.BurnValue,
		VoteValue:    cfg.VoteValue,
		Testnet:      cfg.Testnet,
	})
	service.Run(ctx, wg)

	mux := http.NewServeMux()
	api.RegisterHandlers(mux, api.NewHandler(service), cfg.Token)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", cfg.Port),
		Handler: mux,
	}
	go func() {
		slog.Info("running api server", "port", cfg.Port)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	sig := <-ch
	slog.Info("shut down", "signal", sig.String())
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	slog.Info("api stopped")
	cancel()
	wg.Wait()
}
