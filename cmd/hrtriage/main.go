package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/hrtriage/ticket-service/internal/api/http"
	"github.com/hrtriage/ticket-service/internal/api/http/handlers"
	"github.com/hrtriage/ticket-service/internal/classifier"
	"github.com/hrtriage/ticket-service/internal/config"
	"github.com/hrtriage/ticket-service/internal/events"
	"github.com/hrtriage/ticket-service/internal/observability"
	"github.com/hrtriage/ticket-service/internal/persistence"
	"github.com/hrtriage/ticket-service/internal/repository"
	"github.com/hrtriage/ticket-service/internal/service"
	"github.com/hrtriage/ticket-service/internal/webhook"
	"github.com/hrtriage/ticket-service/internal/worker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "hrtriage",
	Short: "HR ticket triage service",
	Long: `HR ticket triage service.

Receives employee HR requests, classifies them with a zero-shot model and
hands them to the automation webhook for follow-up.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var reclassifyCmd = &cobra.Command{
	Use:   "reclassify",
	Short: "Run one classification sweep over pending tickets",
	Long: `Reclassify retries classification for every ticket stuck in pending,
typically after an inference outage. It works on the ticket store directly;
stop the server first or point STORE_PATH at a copy.`,
	RunE: runReclassify,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reclassifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	store, err := persistence.NewFileStore(cfg.Store, logger)
	if err != nil {
		logger.Error("open ticket store", zap.Error(err))
		return err
	}
	defer store.Close()

	repo := repository.NewTicketRepository(store)
	dispatcher := events.NewInMemoryDispatcher()

	client := classifier.NewClient(cfg.Classifier, logger)
	monitor := classifier.NewHealthMonitor(client, cfg.Classifier.HealthInterval(), logger)
	monitor.Start(cmd.Context())
	defer monitor.Stop()

	hooks := webhook.NewDispatcher(cfg.Webhook, logger)
	defer hooks.Close()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	classificationService := service.NewClassificationService(repo, client, dispatcher, logger)
	worker.StartTriageWorker(service.NewTriageService(classificationService, repo, hooks, dispatcher, logger))

	reclassifier, err := worker.StartReclassifyWorker(cfg.Classifier.ReclassifyCron, classificationService, logger)
	if err != nil {
		logger.Error("start reclassify worker", zap.Error(err))
		return err
	}
	defer reclassifier.Stop()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, httptransport.NewClientLimiter(cfg.RateLimit), cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Tickets:   handlers.NewTicketsHandler(ticketService),
		Analytics: handlers.NewAnalyticsHandler(service.NewAnalyticsService(repo)),
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Webhook, monitor),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	return nil
}

func runReclassify(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	store, err := persistence.NewFileStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	repo := repository.NewTicketRepository(store)
	classification := service.NewClassificationService(repo, classifier.NewClient(cfg.Classifier, logger), nil, logger)

	result, err := classification.ReclassifyPending(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("scanned %d pending tickets: %d classified, %d failed\n", result.Scanned, result.Classified, result.Failed)
	return nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
