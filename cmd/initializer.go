package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"billingBack/internal/billing"
	"billingBack/internal/config"
	"billingBack/internal/handlers"
	"billingBack/internal/locks"
	"billingBack/internal/notify"
	"billingBack/internal/repositories"
	"billingBack/internal/services"
	"billingBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB
	redis    *redis.Client

	tokens     *utils.Manager
	paymentHub *PaymentHub

	invoiceService *services.InvoiceService

	authHandler      *handlers.AuthHandler
	paymentHandler   *handlers.PaymentHandler
	customerHandler  *handlers.CustomerHandler
	invoiceHandler   *handlers.InvoiceHandler
	feedbackHandler  *handlers.FeedbackHandler
	dashboardHandler *handlers.DashboardHandler
	tariffHandler    *handlers.TariffHandler
	healthHandler    *handlers.HealthHandler
}

func initializeApp(ctx context.Context, db *sql.DB, cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	app := &application{errorLog: errorLog, infoLog: infoLog, db: db}

	tokens, err := utils.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}
	app.tokens = tokens

	// Repositories
	tariffRepo := &repositories.TariffRepository{DB: db}
	invoiceRepo := repositories.NewInvoiceRepo(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	customerRepo := &repositories.CustomerRepository{DB: db}
	meterRepo := &repositories.MeterRepository{DB: db}
	billRepo := &repositories.BillRepository{DB: db}
	feedbackRepo := &repositories.FeedbackRepository{DB: db}
	dashboardRepo := &repositories.DashboardRepository{DB: db}
	userRepo := &repositories.UserRepository{DB: db}

	// Payment serialization
	var locker billing.Locker = locks.NewKeyedMutex()
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := app.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, err)
		}
		locker = locks.NewRedisLocker(app.redis, cfg.Redis.LockTTL)
		infoLog.Printf("payments serialized through redis at %s", cfg.Redis.Addr)
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.FCM.CredentialsFile != "" {
		fcm, err := notify.NewFCMNotifier(ctx, cfg.FCM.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("fcm: %w", err)
		}
		notifier = fcm
	}

	var archive services.ReceiptArchive
	s3cfg := utils.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		Bucket:    cfg.S3.Bucket,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	}
	if s3cfg.Enabled() {
		a, err := utils.NewReceiptArchive(s3cfg)
		if err != nil {
			return nil, fmt.Errorf("receipt archive: %w", err)
		}
		archive = a
	}

	app.paymentHub = NewPaymentHub(errorLog)

	// Services
	tariffService := &services.TariffService{Repo: tariffRepo}
	app.invoiceService = &services.InvoiceService{
		Invoices: invoiceRepo,
		Tariffs:  tariffService,
		Payments: paymentRepo,
		Meters:   meterRepo,
		Bills:    billRepo,
		Notifier: notifier,
		ErrorLog: errorLog,
	}
	paymentService := &services.PaymentService{
		Ledger:   billing.NewLedger(paymentRepo, locker),
		Repo:     paymentRepo,
		Events:   app.paymentHub,
		Notifier: notifier,
		Archive:  archive,
		ErrorLog: errorLog,
	}
	customerService := &services.CustomerService{
		Repo:        customerRepo,
		InvoiceRepo: invoiceRepo,
		PaymentRepo: paymentRepo,
		MeterRepo:   meterRepo,
	}
	authService := &services.AuthService{
		Users:     userRepo,
		Customers: customerRepo,
		Tokens:    tokens,
	}
	feedbackService := &services.FeedbackService{Repo: feedbackRepo, Invoices: invoiceRepo}
	dashboardService := &services.DashboardService{
		Stats:     dashboardRepo,
		Payments:  paymentRepo,
		Invoices:  invoiceRepo,
		Customers: customerRepo,
		Meters:    meterRepo,
		Bills:     billRepo,
	}

	// Handlers
	app.authHandler = &handlers.AuthHandler{Service: authService, ErrorLog: errorLog}
	app.paymentHandler = &handlers.PaymentHandler{Invoices: app.invoiceService, Payments: paymentService, ErrorLog: errorLog}
	app.customerHandler = &handlers.CustomerHandler{Service: customerService, ErrorLog: errorLog}
	app.invoiceHandler = &handlers.InvoiceHandler{Service: app.invoiceService, ErrorLog: errorLog}
	app.feedbackHandler = &handlers.FeedbackHandler{Service: feedbackService, ErrorLog: errorLog}
	app.dashboardHandler = &handlers.DashboardHandler{Service: dashboardService, ErrorLog: errorLog}
	app.tariffHandler = &handlers.TariffHandler{Service: tariffService, ErrorLog: errorLog}
	app.healthHandler = &handlers.HealthHandler{DB: db, ErrorLog: errorLog}

	return app, nil
}

func (app *application) close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.errorLog.Printf("close redis: %v", err)
		}
	}
}
