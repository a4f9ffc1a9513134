package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"twentyone-lite/internal/config"
	"twentyone-lite/internal/gateway"
	"twentyone-lite/internal/httpapi"
	"twentyone-lite/internal/ledger"
	"twentyone-lite/internal/lobby"
	"twentyone-lite/internal/notify"
	"twentyone-lite/twentyone"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Invalid configuration: %v", err)
	}

	engine, err := twentyone.New(cfg.Engine)
	if err != nil {
		log.Fatalf("[Server] Failed to init engine: %v", err)
	}

	ledgerService, ledgerMode, err := ledger.NewService(cfg.LedgerMode, cfg.LedgerDSN, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("[Server] Failed to init ledger service: %v", err)
	}
	defer ledgerService.Close()

	publisher, notifyMode, err := notify.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatalf("[Server] Failed to connect NATS: %v", err)
	}
	defer publisher.Close()

	lby := lobby.New(engine, ledgerService, publisher)
	gw := gateway.New(lby)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.SetupRouter(lby, gw, ledger.NewHTTPHandler(ledgerService, cfg.HistoryPage))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go notify.NewReporter(publisher, cfg.StatsAt, lby.DailyStats).Run(ctx)

	// 过期邀请本来是惰性清理的, 这里顺带定期扫一次
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := engine.SweepInvitations(); n > 0 {
					log.Printf("[Server] Swept %d expired invitations", n)
				}
			}
		}
	}()

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("[Server] Ledger mode: %s", ledgerMode)
	log.Printf("[Server] Notify mode: %s", notifyMode)
	log.Printf("[Server] Target score: %d, dealer stands on %d", cfg.Engine.TargetScore, cfg.Engine.DealerStandOn)
	log.Printf("[Server] Starting server on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
	log.Printf("[Server] Stopped")
}
