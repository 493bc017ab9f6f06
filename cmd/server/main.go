package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"certledger/internal/audit"
	"certledger/internal/identity"
	"certledger/internal/issuance"
	issuancehandler "certledger/internal/issuance/handler"
	"certledger/internal/ledger"
	ledgerhandler "certledger/internal/ledger/handler"
	"certledger/internal/platform/config"
	"certledger/internal/platform/health"
	"certledger/internal/platform/httpserver"
	"certledger/internal/platform/logger"
	"certledger/internal/platform/prefs"
	"certledger/internal/records"
	"certledger/internal/records/fixtures"
	"certledger/internal/receipts"
	httptransport "certledger/internal/transport/http"
	"certledger/internal/verification"
	verificationhandler "certledger/internal/verification/handler"
	"certledger/internal/verification/metrics"
	"certledger/internal/verification/tracer"
	"certledger/pkg/domain"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing certledger",
		"addr", cfg.Addr,
		"real_ledger_default", cfg.RealLedger,
	)

	ctx := context.Background()

	// Stores and fixtures.
	store := records.NewInMemoryStore()
	if err := fixtures.Seed(ctx, store); err != nil {
		log.Error("failed to seed fixture records", "error", err)
		os.Exit(1)
	}
	admins := append(fixtures.Admins(), parseAddresses(log, "admin", cfg.ExtraAdmins)...)
	teachers := append(fixtures.Teachers(), parseAddresses(log, "teacher", cfg.ExtraTeachers)...)
	roles := identity.NewRegistry(admins, teachers)
	auditStore := audit.NewInMemoryStore()
	auditor := audit.NewStorePublisher(auditStore)

	// Ledger adapters, selected by the persisted mode preference.
	prefStore := prefs.NewStore(cfg.PrefsPath)
	simulated := ledger.NewSimulated(store, fixtures.Issuer, cfg.SimulatedDelay)
	remote := ledger.NewRemote(cfg.LedgerBaseURL)
	selector := ledger.NewSelector(simulated, remote, cfg.RealLedger, prefStore, log)

	// Domain services.
	engineMetrics := metrics.New()
	engineTracer := tracer.NewOTel()

	verifier := verification.NewService(selector,
		verification.WithTracer(engineTracer),
		verification.WithMetrics(engineMetrics),
		verification.WithAuditor(auditor),
		verification.WithLogger(log),
	)
	gate := issuance.NewService(roles, store, selector, fixtures.Issuer,
		issuance.WithTracer(engineTracer),
		issuance.WithMetrics(engineMetrics),
		issuance.WithAuditor(auditor),
		issuance.WithLogger(log),
	)
	receiptIssuer := receipts.NewIssuer(cfg.ReceiptSigningKey, 0)

	// Transport.
	healthHandler := health.New()
	healthHandler.RegisterCheck("record_store", func() error {
		if store.Len() == 0 {
			return errors.New("record store has no seeded records")
		}
		return nil
	})

	router := httptransport.NewRouter(log, healthHandler,
		verificationhandler.New(verifier, receiptIssuer, log),
		issuancehandler.New(gate, roles, log),
		ledgerhandler.New(selector, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server",
		"addr", cfg.Addr,
		"ledger_mode", selector.Mode().String(),
		"seeded_records", store.Len(),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	if err := httpserver.Shutdown(srv, 10*time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// parseAddresses validates operator-supplied wallet addresses, dropping
// malformed entries with a warning rather than refusing to start.
func parseAddresses(log *slog.Logger, role string, raw []string) []domain.Address {
	out := make([]domain.Address, 0, len(raw))
	for _, v := range raw {
		addr := domain.ParseAddress(v)
		if addr.IsNil() {
			log.Warn("skipping empty allow-list address", "role", role)
			continue
		}
		out = append(out, addr)
	}
	return out
}
