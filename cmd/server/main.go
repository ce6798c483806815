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

	"arc-staff-portal/internal/audit"
	auditrepo "arc-staff-portal/internal/audit/repository"
	authhandler "arc-staff-portal/internal/auth/handler"
	authservice "arc-staff-portal/internal/auth/service"
	cardhandler "arc-staff-portal/internal/card/handler"
	cardrepo "arc-staff-portal/internal/card/repository"
	"arc-staff-portal/internal/config"
	"arc-staff-portal/internal/db"
	healthhandler "arc-staff-portal/internal/health/handler"
	"arc-staff-portal/internal/idp"
	idprepo "arc-staff-portal/internal/idp/repository"
	"arc-staff-portal/internal/principal"
	principalrepo "arc-staff-portal/internal/principal/repository"
	recipienthandler "arc-staff-portal/internal/recipient/handler"
	recipientrepo "arc-staff-portal/internal/recipient/repository"
	"arc-staff-portal/internal/security"
	"arc-staff-portal/internal/server"
	"arc-staff-portal/internal/server/middleware"
	sessionrepo "arc-staff-portal/internal/session/repository"
	"arc-staff-portal/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "arc-staff-portal", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	privateKey, err := security.ParsePrivateKey(cfg.JWTPrivateKey)
	if err != nil {
		log.Fatalf("jwt private key: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.JWTPublicKey)
	if err != nil {
		log.Fatalf("jwt public key: %v", err)
	}

	tokens := security.NewTokenProvider(
		privateKey, publicKey,
		cfg.JWTIssuer, cfg.JWTAudience,
		cfg.IDTokenTTLDuration(), cfg.CustomTokenTTLDuration(), cfg.SessionTTLDuration(),
	)

	provider := idp.NewLocalProvider(
		idprepo.NewPostgresRepository(conn),
		sessionrepo.NewPostgresRepository(conn),
		tokens,
		security.NewHasher(cfg.BcryptCost),
	)

	directory := principal.NewDirectory(principalrepo.NewPostgresRepository(conn))
	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(conn), middleware.IPFromContext)

	principalWriter := principalrepo.NewPostgresRepository(conn)
	authSvc := authservice.NewAuthService(
		provider,
		directory,
		principalWriter,
		principalWriter,
		security.NewIDHasher(cfg.ITIDHashPepper),
		auditor,
	)

	recipients := recipientrepo.NewPostgresRepository(conn)
	cards := cardrepo.NewPostgresRepository(conn)

	router := server.NewRouter(server.Deps{
		Provider:           provider,
		Auth:               authhandler.NewHandler(authSvc, directory, provider.SessionTTL(), cfg.IsProduction()),
		Recipient:          recipienthandler.NewHandler(recipients, auditor),
		Card:               cardhandler.NewHandler(cards, recipients, auditor),
		Health:             healthhandler.NewHandler(conn),
		CORSAllowedOrigins: cfg.CORSOrigins(),
		StaticDir:          cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
