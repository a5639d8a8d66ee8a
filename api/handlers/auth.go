package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/SamuelLeutner/student-declarations/api/middleware"
	"github.com/SamuelLeutner/student-declarations/api/requests"
	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/services"
	"github.com/SamuelLeutner/student-declarations/utils"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const oauthStateCookie = "oauth_state"

// SignInProvider runs the external sign-in: it builds the consent URL and
// trades the returned code for a verified email.
type SignInProvider interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// AuthDeps groups what the sign-in handlers need.
type AuthDeps struct {
	SSO          SignInProvider
	Sessions     *services.SessionManager
	Audit        services.AuditRecorder
	RedirectTo   string
	SecureCookie bool
	Logger       *zap.Logger
}

func CreateLoginHandler(deps AuthDeps) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !deps.SSO.Configured() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "Login indisponível"})
		}

		state, err := services.NewOAuthState()
		if err != nil {
			return respondError(c, deps.Logger, "login", err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   int((10 * time.Minute).Seconds()),
			HTTPOnly: true,
			Secure:   deps.SecureCookie,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		return c.Redirect().Status(fiber.StatusFound).To(deps.SSO.AuthCodeURL(state))
	}
}

// CreateCallbackHandler completes the Google sign-in, records the login and
// sets the session cookie. The login audit is best effort.
func CreateCallbackHandler(deps AuthDeps) fiber.Handler {
	return func(c fiber.Ctx) error {
		params := new(requests.OAuthCallbackRequest)
		if err := c.Bind().Query(params); err != nil || params.Error != "" || params.Code == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: msgUnauthorized})
		}

		expectedState := c.Cookies(oauthStateCookie)
		c.ClearCookie(oauthStateCookie)
		if expectedState == "" || expectedState != params.State {
			deps.Logger.Warn("[AUTH] OAuth state mismatch")
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: msgUnauthorized})
		}

		email, err := deps.SSO.Exchange(c.Context(), params.Code)
		if err != nil {
			if errors.Is(err, services.ErrDomainNotAllowed) {
				deps.Logger.Warn("[AUTH] Access denied for domain", zap.Error(err))
				return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{Error: "Domínio de e-mail não autorizado"})
			}
			deps.Logger.Error("[AUTH] Sign-in failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: msgUnauthorized})
		}

		return completeSignIn(c, deps, email)
	}
}

func completeSignIn(c fiber.Ctx, deps AuthDeps, email string) error {
	recordLogin(c.Context(), deps, models.LoginEvent{
		EmailUsuario: email,
		UserAgent:    c.Get(fiber.HeaderUserAgent),
		IPAddress:    c.IP(),
		DataAcesso:   utils.BrasiliaNow(),
	})

	token, err := deps.Sessions.Issue(email)
	if err != nil {
		return respondError(c, deps.Logger, "sign_in", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(deps.Sessions.TTL().Seconds()),
		HTTPOnly: true,
		Secure:   deps.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect().Status(fiber.StatusFound).To(deps.RedirectTo)
}

func recordLogin(ctx context.Context, deps AuthDeps, event models.LoginEvent) {
	if err := deps.Audit.RecordLogin(ctx, event); err != nil {
		deps.Logger.Error("[AUTH] Failed to log access", zap.String("email", event.EmailUsuario), zap.Error(err))
		return
	}
	deps.Logger.Info("[AUTH] Login logged", zap.String("email", event.EmailUsuario))
}

func HandleLogout(c fiber.Ctx) error {
	c.ClearCookie(middleware.SessionCookieName)
	return c.SendStatus(fiber.StatusNoContent)
}

func HandleMe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"email": middleware.PrincipalEmail(c)})
}
