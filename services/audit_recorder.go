package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SamuelLeutner/student-declarations/config"
	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/utils"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuditRecorder appends audit rows. There is deliberately no update or
// delete path.
type AuditRecorder interface {
	RecordLogin(ctx context.Context, event models.LoginEvent) error
	RecordDeclaration(ctx context.Context, event models.DeclarationEvent) error
}

type GormAuditRecorder struct {
	db *gorm.DB
}

func NewGormAuditRecorder(db *gorm.DB) *GormAuditRecorder {
	return &GormAuditRecorder{db: db}
}

// OpenAuditDatabase connects to the audit store selected by the config. SQL
// logging goes through zapLogger with bound parameters redacted, since rows
// carry student CPFs.
func OpenAuditDatabase(cfg *config.Config, zapLogger *zap.Logger) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.DatabaseDriver) {
	case "", "postgres", "postgresql":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	gormLogger := logger.New(zap.NewStdLog(zapLogger.Named("gorm")), logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormLogger,
		NowFunc: utils.BrasiliaNow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func MigrateAudit(db *gorm.DB) error {
	return db.AutoMigrate(&models.LoginEvent{}, &models.DeclarationEvent{})
}

func (r *GormAuditRecorder) RecordLogin(ctx context.Context, event models.LoginEvent) error {
	event.ID = 0
	if event.DataAcesso.IsZero() {
		event.DataAcesso = utils.BrasiliaNow()
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record login for %s: %w", event.EmailUsuario, err)
	}
	return nil
}

func (r *GormAuditRecorder) RecordDeclaration(ctx context.Context, event models.DeclarationEvent) error {
	event.ID = 0
	if event.DataGeracao.IsZero() {
		event.DataGeracao = utils.BrasiliaNow()
	}
	if err := r.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to record declaration for %s: %w", event.CPFAluno, err)
	}
	return nil
}

func (r *GormAuditRecorder) RecentLogins(ctx context.Context, limit int) ([]models.LoginEvent, error) {
	var events []models.LoginEvent
	err := r.db.WithContext(ctx).Order("data_acesso desc").Order("id desc").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list login events: %w", err)
	}
	for i := range events {
		events[i].DataAcesso = utils.ToBrasilia(events[i].DataAcesso)
	}
	return events, nil
}

func (r *GormAuditRecorder) RecentDeclarations(ctx context.Context, limit int) ([]models.DeclarationEvent, error) {
	var events []models.DeclarationEvent
	err := r.db.WithContext(ctx).Order("data_geracao desc").Order("id desc").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list declaration events: %w", err)
	}
	for i := range events {
		events[i].DataGeracao = utils.ToBrasilia(events[i].DataGeracao)
	}
	return events, nil
}
