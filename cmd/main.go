package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/SamuelLeutner/student-declarations/api"
	"github.com/SamuelLeutner/student-declarations/config"
	"github.com/SamuelLeutner/student-declarations/logger"
	"github.com/SamuelLeutner/student-declarations/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var appLogger *zap.Logger

func main() {
	root := &cobra.Command{
		Use:           "declaracoes",
		Short:         "Enrollment declaration service backed by the students spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.Init()
			resolveCredentialsPath(&config.AppConfig)

			l, err := logger.New(config.AppConfig.Environment, config.AppConfig.LogLevel)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			appLogger = l
			return nil
		},
		RunE: runServe,
	}

	root.AddCommand(
		&cobra.Command{Use: "serve", Short: "Start the HTTP server", RunE: runServe},
		newSheetsCommand(),
		newLogsCommand(),
		newMigrateCommand(),
	)

	err := root.Execute()
	if appLogger != nil {
		_ = appLogger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveCredentialsPath falls back to credentials.json next to the binary
// when the configured file does not exist.
func resolveCredentialsPath(cfg *config.Config) {
	credsPath := cfg.CredentialsFilePath
	if credsPath == "" {
		return
	}
	if _, err := os.Stat(credsPath); err == nil {
		return
	}

	exePath, err := os.Executable()
	if err != nil {
		return
	}
	fallback := filepath.Join(filepath.Dir(exePath), "credentials.json")
	if _, err := os.Stat(fallback); err == nil {
		log.Printf("Credentials file not found at '%s', using '%s'", credsPath, fallback)
		cfg.CredentialsFilePath = fallback
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := &config.AppConfig

	db, err := services.OpenAuditDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	if err := services.MigrateAudit(db); err != nil {
		return fmt.Errorf("failed to run audit migrations: %w", err)
	}
	audit := services.NewGormAuditRecorder(db)

	sessions, err := services.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		appLogger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	sso := services.NewGoogleSSO(cfg)
	if !sso.Configured() {
		appLogger.Warn("Google sign-in is not configured, /auth/login will be unavailable")
	}

	reader := services.NewGoogleSheetsReader(cfg, appLogger)
	repository := services.NewStudentRepository(reader, cfg.SourceTables, cfg.SheetRangeColumns, appLogger)
	locator := services.NewStudentLocator(repository, cfg.SearchLimit)
	renderer := services.NewDeclarationRenderer(cfg.AssetsDir, appLogger)
	declarations := services.NewDeclarationService(locator, renderer.Render, audit, appLogger)

	app := api.SetupRouter(api.Dependencies{
		Locator:      locator,
		Declarations: declarations,
		Sessions:     sessions,
		SSO:          sso,
		Audit:        audit,
		RedirectTo:   cfg.PostLoginRedirect,
		SecureCookie: cfg.IsProduction(),
		Timeout:      cfg.RequestTimeout,
		Logger:       appLogger,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		appLogger.Info("Shutting down server...")
		if err := app.Shutdown(); err != nil {
			appLogger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	appLogger.Info("Starting Fiber server", zap.String("addr", cfg.ListenAddr))
	if err := app.Listen(cfg.ListenAddr); err != nil {
		return fmt.Errorf("fiber server stopped: %w", err)
	}

	appLogger.Info("Main process completed (Fiber server stopped).")
	return nil
}
