package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/adpopescu/panex-api/internal/application/billing"
	"github.com/adpopescu/panex-api/internal/application/export"
	"github.com/adpopescu/panex-api/internal/application/groups"
	"github.com/adpopescu/panex-api/internal/application/orders"
	infrapdf "github.com/adpopescu/panex-api/internal/infrastructure/pdf"
	"github.com/adpopescu/panex-api/internal/infrastructure/postgres"
	"github.com/adpopescu/panex-api/internal/infrastructure/render"
	httpRouter "github.com/adpopescu/panex-api/internal/interfaces/http"
	"github.com/adpopescu/panex-api/pkg/config"
	"github.com/adpopescu/panex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	orderRepo := postgres.NewOrderRepository(pool)
	dayRepo := postgres.NewDayStatusRepository(pool)
	counterRepo := postgres.NewExportCounterRepository(pool)
	companyRepo := postgres.NewCompanyConfigRepository(pool)
	settingsRepo := postgres.NewBillingSettingsRepository(pool)
	invoiceRepo := postgres.NewLocalInvoiceRepository(pool)
	groupRepo := postgres.NewProductGroupRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	renderer := render.NewRenderer()
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	orderUC := orders.NewUseCase(txRunner, orderRepo, productRepo, log)
	exportUC := export.NewUseCase(
		txRunner, orderRepo, dayRepo, counterRepo, companyRepo,
		clientRepo, productRepo, groupRepo, invoiceRepo, renderer, log,
	)
	billingUC := billing.NewUseCase(
		txRunner, orderRepo, clientRepo, productRepo, companyRepo,
		settingsRepo, invoiceRepo, pdfGenerator, log,
	)
	groupUC := groups.NewUseCase(groupRepo, productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:   orderUC,
		ExportUC:  exportUC,
		BillingUC: billingUC,
		GroupUC:   groupUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
