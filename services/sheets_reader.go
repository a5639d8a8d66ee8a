package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/SamuelLeutner/student-declarations/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// RowFetcher returns the raw cell grid of one range of the spreadsheet.
type RowFetcher interface {
	GetRows(ctx context.Context, rangeSpec string) ([][]interface{}, error)
}

// GoogleSheetsReader reads the students spreadsheet with a read-only
// service account. The API client is built on first use and kept once it
// has been built successfully.
type GoogleSheetsReader struct {
	cfg    *config.Config
	logger *zap.Logger

	mu            sync.Mutex
	sheetsService *sheets.Service
}

func NewGoogleSheetsReader(cfg *config.Config, logger *zap.Logger) *GoogleSheetsReader {
	return &GoogleSheetsReader{cfg: cfg, logger: logger}
}

func (r *GoogleSheetsReader) service(ctx context.Context) (*sheets.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sheetsService != nil {
		return r.sheetsService, nil
	}

	if r.cfg.SpreadsheetID == "" || !r.cfg.HasSheetsCredentials() {
		return nil, fmt.Errorf("%w: spreadsheet id and service account credentials are required", ErrMissingConfiguration)
	}

	client, err := r.httpClient(ctx)
	if err != nil {
		return nil, err
	}

	// The client outlives the request that triggered its construction.
	svc, err := sheets.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Sheets API client: %w", err)
	}

	r.logger.Info("API Sheets: client initialized", zap.String("spreadsheet", r.cfg.SpreadsheetID))
	r.sheetsService = svc
	return svc, nil
}

func (r *GoogleSheetsReader) httpClient(ctx context.Context) (*http.Client, error) {
	if r.cfg.CredentialsFilePath != "" {
		credentialsJSON, err := os.ReadFile(r.cfg.CredentialsFilePath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read credentials file: %v", ErrMissingConfiguration, err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to configure JWT from credentials: %v", ErrMissingConfiguration, err)
		}
		return jwtConfig.Client(context.Background()), nil
	}

	jwtConfig := &jwt.Config{
		Email:      r.cfg.SheetsClientEmail,
		PrivateKey: []byte(r.cfg.SheetsPrivateKey),
		Scopes:     []string{sheets.SpreadsheetsReadonlyScope},
		TokenURL:   google.JWTTokenURL,
	}
	return jwtConfig.Client(context.Background()), nil
}

func (r *GoogleSheetsReader) GetRows(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	svc, err := r.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := svc.Spreadsheets.Values.Get(r.cfg.SpreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range '%s' in spreadsheet '%s': %w", rangeSpec, r.cfg.SpreadsheetID, err)
	}
	return resp.Values, nil
}

// SheetTitles lists the tabs of the spreadsheet.
func (r *GoogleSheetsReader) SheetTitles(ctx context.Context) ([]string, error) {
	svc, err := r.service(ctx)
	if err != nil {
		return nil, err
	}

	spreadsheet, err := svc.Spreadsheets.Get(r.cfg.SpreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet details for '%s': %w", r.cfg.SpreadsheetID, err)
	}

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			titles = append(titles, sheet.Properties.Title)
		}
	}
	return titles, nil
}

// sheetsFailureReason gives a short label for a failed read, for logs only.
func sheetsFailureReason(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return "transport"
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return "quota"
	case apiErr.Code == http.StatusForbidden && strings.Contains(strings.ToLower(apiErr.Message), "ratelimitexceeded"):
		return "quota"
	case apiErr.Code == http.StatusForbidden:
		return "permission"
	case apiErr.Code == http.StatusNotFound:
		return "not_found"
	case apiErr.Code == http.StatusBadRequest:
		return "bad_range"
	case apiErr.Code >= 500:
		return "upstream"
	}
	return "api"
}
