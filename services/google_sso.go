package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/SamuelLeutner/student-declarations/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrDomainNotAllowed = errors.New("email domain not allowed")

// GoogleSSO signs staff in with their institutional Google account.
type GoogleSSO struct {
	oauthConfig   *oauth2.Config
	allowedDomain string
}

func NewGoogleSSO(cfg *config.Config) *GoogleSSO {
	return &GoogleSSO{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{googleoauth2.UserinfoEmailScope, "openid"},
			Endpoint:     google.Endpoint,
		},
		allowedDomain: strings.ToLower(strings.TrimSpace(cfg.AllowedEmailDomain)),
	}
}

func (s *GoogleSSO) Configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleSSO) AuthCodeURL(state string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	if s.allowedDomain != "" {
		opts = append(opts, oauth2.SetAuthURLParam("hd", s.allowedDomain))
	}
	return s.oauthConfig.AuthCodeURL(state, opts...)
}

// Exchange trades the authorization code for the user's verified email.
func (s *GoogleSSO) Exchange(ctx context.Context, code string) (string, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	svc, err := googleoauth2.NewService(ctx, option.WithTokenSource(s.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return "", fmt.Errorf("failed to create userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	if info.Email == "" || (info.VerifiedEmail != nil && !*info.VerifiedEmail) {
		return "", fmt.Errorf("google account has no verified email")
	}

	if err := s.CheckDomain(info.Email); err != nil {
		return "", err
	}
	return info.Email, nil
}

// CheckDomain enforces the configured institutional domain, if any.
func (s *GoogleSSO) CheckDomain(email string) error {
	if s.allowedDomain == "" {
		return nil
	}
	at := strings.LastIndex(email, "@")
	if at < 0 || strings.ToLower(email[at+1:]) != s.allowedDomain {
		return fmt.Errorf("%w: %s", ErrDomainNotAllowed, email)
	}
	return nil
}

func NewOAuthState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
