package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gameshop/backend/internal/config"
	"gameshop/backend/internal/httpapi"
	"gameshop/backend/internal/service"
	"gameshop/backend/internal/store"
	filestore "gameshop/backend/internal/store/file"
	pgstore "gameshop/backend/internal/store/postgres"
	redisstore "gameshop/backend/internal/store/redis"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var st store.Store
	closers := make([]func() error, 0, 2)

	switch {
	case cfg.DatabaseURL != "":
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with a file fallback", err)
		}
		st = pg
		closers = append(closers, pg.Close)
		log.Println("store: postgres")
	case cfg.RedisAddr != "":
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "")
		if err := rs.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), falling back to file store", err)
			st = filestore.New(cfg.DataFile)
			log.Printf("store: file %s", cfg.DataFile)
		} else {
			st = rs
			closers = append(closers, rs.Close)
			log.Println("store: redis")
		}
	default:
		st = filestore.New(cfg.DataFile)
		log.Printf("store: file %s", cfg.DataFile)
	}

	svc := service.New(st)
	sessions, err := httpapi.NewSessionManager(cfg.AuthSecret, time.Duration(cfg.SessionTTLMinutes)*time.Minute, cfg.OperatorUser, cfg.OperatorPassword)
	if err != nil {
		log.Fatalf("session manager: %v", err)
	}
	api := httpapi.New(svc, sessions, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("shop server listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.OperatorPassword == "" || cfg.OperatorPassword == "admin" {
		return fmt.Errorf("OPERATOR_PASSWORD must be set to a non-default value")
	}
	return nil
}
