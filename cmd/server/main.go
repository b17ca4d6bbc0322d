package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Solomon-Dzokoto/hng-wallet/config"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/database"
	"github.com/Solomon-Dzokoto/hng-wallet/internal/router"
	"github.com/Solomon-Dzokoto/hng-wallet/pkg/payment"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var provider payment.Provider
	if cfg.Paystack.SecretKey != "" {
		provider = payment.NewPaystackProvider(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, cfg.Paystack.Timeout)
	} else {
		log.Printf("[payment] PAYSTACK_SECRET_KEY not set, using stub provider")
		provider = &payment.StubProvider{}
	}

	engine := router.Setup(cfg, db, provider)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
