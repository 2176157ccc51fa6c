package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/config"
	"github.com/grandresort/crm/internal/repository"
	"github.com/grandresort/crm/internal/repository/memory"
	"github.com/grandresort/crm/internal/repository/mongodb"
	"github.com/grandresort/crm/internal/repository/sheets"
	"github.com/grandresort/crm/internal/scheduler"
	"github.com/grandresort/crm/internal/server/handlers"
	"github.com/grandresort/crm/internal/server/router"
	inquirysvc "github.com/grandresort/crm/internal/service/inquiry"
	leadsvc "github.com/grandresort/crm/internal/service/leads"
	"github.com/grandresort/crm/internal/service/pricing"
	"github.com/grandresort/crm/internal/service/quotes"
	whatsappsvc "github.com/grandresort/crm/internal/service/whatsapp"
	whatsappclient "github.com/grandresort/crm/pkg/clients/whatsapp"
	"github.com/grandresort/crm/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var (
		leadStore   repository.LeadStore
		tariffStore repository.TariffStore
	)

	if cfg.MongoDB.Enabled() {
		client, err := mongodb.Connect(context.Background(), cfg.MongoDB.URI)
		if err != nil {
			baseLogger.Fatal("failed to connect to mongodb", zap.Error(err))
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()

		leadStore = mongodb.NewLeadStore(client, cfg.MongoDB.DBName)
		tariffStore = mongodb.NewTariffStore(client, cfg.MongoDB.DBName, baseLogger.Named("repo.tariffs"))
		baseLogger.Info("mongodb stores enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		leadStore = memory.NewLeadStore()
		tariffStore = memory.NewTariffStore(memory.DefaultCatalog()...)
		baseLogger.Warn("MONGODB_URI missing, using in-memory stores")
	}

	if cfg.RateSheet.Enabled() {
		importer, err := sheets.NewRateSheetImporter(context.Background(),
			cfg.RateSheet.CredentialsPath, cfg.RateSheet.SpreadsheetID, cfg.RateSheet.ReadRange,
			baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init rate sheet importer", zap.Error(err))
		}
		if _, err := importer.Import(context.Background(), tariffStore); err != nil {
			baseLogger.Error("rate sheet import failed", zap.Error(err))
		}
	}

	calc := pricing.NewCalculator(baseLogger.Named("svc.pricing"))
	renderer := quotes.NewRenderer()
	parser := inquirysvc.NewParser(baseLogger.Named("svc.inquiry"))

	var messenger leadsvc.Messenger
	var whatsClient *whatsappclient.APIClient
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		messenger = whatsClient
		baseLogger.Info("whatsapp client enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, messaging disabled")
	}

	leadService := leadsvc.NewService(leadStore, tariffStore, calc, renderer, messenger,
		cfg.WhatsApp.ReminderRecipient, baseLogger.Named("svc.leads"))

	routerHandlers := router.Handlers{
		Quote:  handlers.NewQuoteHandler(parser, calc, renderer, tariffStore, baseLogger.Named("handlers.quotes")),
		Lead:   handlers.NewLeadHandler(leadService, baseLogger.Named("handlers.leads")),
		Tariff: handlers.NewTariffHandler(tariffStore, baseLogger.Named("handlers.tariffs")),
	}

	if whatsClient != nil {
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, parser, leadService, baseLogger.Named("svc.whatsapp"))
		routerHandlers.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
	}

	engine := router.New(routerHandlers, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reminders, leadService, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
