package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pvellanki/stockmatch/params"
	"github.com/pvellanki/stockmatch/pkg/api"
	"github.com/pvellanki/stockmatch/pkg/engine"
	"github.com/pvellanki/stockmatch/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLoggerWithFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.LogFile)

	// ---- Engine ----
	reg := engine.NewRegistry(logger, util.RealClock{})
	reg.SetTradeHistory(cfg.Engine.TradeHistory)

	// ---- API server ----
	server := api.NewServer(reg, cfg.API, sugar, util.RealClock{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.Start(cfg.API.Addr); err != nil && ctx.Err() == nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	sugar.Infow("stockmatch_started",
		"addr", cfg.API.Addr,
		"trade_history", cfg.Engine.TradeHistory)

	<-ctx.Done()
	sugar.Info("shutting down")
}
