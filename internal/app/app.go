package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/medtrack/internal/config"
	"github.com/templui/medtrack/internal/db"
	"github.com/templui/medtrack/internal/markdown"
	"github.com/templui/medtrack/internal/repository"
	"github.com/templui/medtrack/internal/service"
	"github.com/templui/medtrack/internal/service/payment"
	"github.com/templui/medtrack/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	IdentityService     *service.IdentityService
	MedicationService   *service.MedicationService
	SideEffectService   *service.SideEffectService
	CheckinService      *service.CheckinService
	UsageService        *service.UsageService
	ReportService       *service.ReportService
	SubscriptionService *service.SubscriptionService
	SupportService      *service.SupportService
	EmailService        *service.EmailService
	PaymentService      payment.Provider
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Storage (nil when S3_BUCKET is unset)
	artifactStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	return Build(cfg, database, payment.NewProvider(cfg), artifactStorage), nil
}

// Build wires repositories and services around already opened infrastructure.
func Build(cfg *config.Config, database *sqlx.DB, paymentProvider payment.Provider, artifactStorage storage.Storage) *App {
	// Repositories
	medicationRepository := repository.NewMedicationRepository(database)
	sideEffectRepository := repository.NewSideEffectRepository(database)
	checkinRepository := repository.NewCheckinRepository(database)
	reportRepository := repository.NewReportRepository(database)
	usageRepository := repository.NewUsageRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.EmailLogOnly,
	)
	identityService := service.NewIdentityService(cfg.AuthURL, cfg.AuthAnonKey, cfg.AuthJWTSecret, cfg.HTTPClientTimeout)
	usageService := service.NewUsageService(usageRepository, paymentProvider)
	artifactService := service.NewArtifactService(markdown.NewRenderer(), artifactStorage)
	reportService := service.NewReportService(
		reportRepository,
		medicationRepository,
		sideEffectRepository,
		checkinRepository,
		usageService,
		artifactService,
		emailService,
	)
	supportService := service.NewSupportService(service.SupportConfig{
		APIKey:    cfg.StreamAPIKey,
		APISecret: cfg.StreamAPISecret,
		BaseURL:   cfg.StreamBaseURL,
		AgentID:   cfg.StreamSupportAgent,
		Timeout:   cfg.HTTPClientTimeout,
		TokenTTL:  cfg.StreamTokenTTL,
	})

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		IdentityService:     identityService,
		MedicationService:   service.NewMedicationService(medicationRepository),
		SideEffectService:   service.NewSideEffectService(sideEffectRepository, medicationRepository),
		CheckinService:      service.NewCheckinService(checkinRepository),
		UsageService:        usageService,
		ReportService:       reportService,
		SubscriptionService: service.NewSubscriptionService(paymentProvider),
		SupportService:      supportService,
		EmailService:        emailService,
		PaymentService:      paymentProvider,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
