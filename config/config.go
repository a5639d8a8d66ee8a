package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/joho/godotenv"
)

func Init() {
	log.Println("Initializing configuration...")
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded (%v), using process environment", err)
	} else {
		log.Println("Loaded .env file successfully")
	}

	AppConfig.SpreadsheetID = os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	AppConfig.SheetsClientEmail = os.Getenv("GOOGLE_SHEETS_CLIENT_EMAIL")
	AppConfig.SheetsPrivateKey = strings.ReplaceAll(os.Getenv("GOOGLE_SHEETS_PRIVATE_KEY"), `\n`, "\n")
	AppConfig.CredentialsFilePath = os.Getenv("CREDENTIALS_FILE_PATH")

	AppConfig.OAuthClientID = os.Getenv("GOOGLE_CLIENT_ID")
	AppConfig.OAuthClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	AppConfig.OAuthRedirectURL = os.Getenv("OAUTH_REDIRECT_URL")
	AppConfig.AllowedEmailDomain = os.Getenv("ALLOWED_EMAIL_DOMAIN")
	AppConfig.SessionSecret = os.Getenv("SESSION_SECRET")

	setIfPresent(&AppConfig.DatabaseDriver, "DATABASE_DRIVER")
	setIfPresent(&AppConfig.DatabaseURL, "DATABASE_URL")
	setIfPresent(&AppConfig.AssetsDir, "ASSETS_DIR")
	setIfPresent(&AppConfig.ListenAddr, "LISTEN_ADDR")
	setIfPresent(&AppConfig.Environment, "APP_ENV")
	setIfPresent(&AppConfig.LogLevel, "LOG_LEVEL")
	setIfPresent(&AppConfig.PostLoginRedirect, "POST_LOGIN_REDIRECT")

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			AppConfig.RequestTimeout = d
		} else {
			log.Printf("Ignoring invalid REQUEST_TIMEOUT %q: %v", v, err)
		}
	}
}

func setIfPresent(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

type Config struct {
	SpreadsheetID       string
	SheetsClientEmail   string
	SheetsPrivateKey    string
	CredentialsFilePath string
	SourceTables        []models.SourceTable
	SheetRangeColumns   string
	SearchLimit         int

	OAuthClientID      string
	OAuthClientSecret  string
	OAuthRedirectURL   string
	AllowedEmailDomain string
	SessionSecret      string
	SessionTTL         time.Duration
	PostLoginRedirect  string

	DatabaseDriver string
	DatabaseURL    string

	AssetsDir      string
	ListenAddr     string
	Environment    string
	LogLevel       string
	RequestTimeout time.Duration
}

var AppConfig = Config{
	SourceTables: []models.SourceTable{
		{Name: "Turma 3", HeaderRowIndex: 1},
		{Name: "Turma 4 (Essencial)", HeaderRowIndex: 1},
		{Name: "Turma 4 (Online)", HeaderRowIndex: 0},
		{Name: "Turma 5", HeaderRowIndex: 1},
		{Name: "Turma 5 (Online)", HeaderRowIndex: 3},
	},
	SheetRangeColumns: "A:Z",
	SearchLimit:       20,
	SessionTTL:        12 * time.Hour,
	PostLoginRedirect: "/busca",
	DatabaseDriver:    "postgres",
	DatabaseURL:       "",
	AssetsDir:         "public/assets",
	ListenAddr:        ":3000",
	Environment:       "development",
	LogLevel:          "info",
	RequestTimeout:    2 * time.Minute,
}

// HasSheetsCredentials reports whether either credential form is configured.
func (c *Config) HasSheetsCredentials() bool {
	if c.CredentialsFilePath != "" {
		return true
	}
	return c.SheetsClientEmail != "" && c.SheetsPrivateKey != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
