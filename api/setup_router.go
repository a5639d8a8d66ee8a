package api

import (
	"time"

	"github.com/SamuelLeutner/student-declarations/api/handlers"
	"github.com/SamuelLeutner/student-declarations/api/middleware"
	"github.com/SamuelLeutner/student-declarations/services"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type Dependencies struct {
	Locator      *services.StudentLocator
	Declarations *services.DeclarationService
	Sessions     *services.SessionManager
	SSO          handlers.SignInProvider
	Audit        services.AuditRecorder
	RedirectTo   string
	SecureCookie bool
	Timeout      time.Duration
	Logger       *zap.Logger
}

func SetupRouter(deps Dependencies) *fiber.App {
	r := fiber.New(fiber.Config{
		AppName:      "student-declarations",
		ReadTimeout:  deps.Timeout,
		WriteTimeout: deps.Timeout,
	})
	r.Use(middleware.RequestLogger(deps.Logger))

	api := r.Group("/api/v1")
	api.Get("/ping", handlers.HandlePing)

	authDeps := handlers.AuthDeps{
		SSO:          deps.SSO,
		Sessions:     deps.Sessions,
		Audit:        deps.Audit,
		RedirectTo:   deps.RedirectTo,
		SecureCookie: deps.SecureCookie,
		Logger:       deps.Logger,
	}
	auth := api.Group("/auth")
	auth.Get("/login", handlers.CreateLoginHandler(authDeps))
	auth.Get("/callback", handlers.CreateCallbackHandler(authDeps))
	auth.Post("/logout", handlers.HandleLogout)
	auth.Get("/me", handlers.HandleMe, middleware.RequireSession(deps.Sessions))

	students := api.Group("/students", middleware.RequireSession(deps.Sessions))
	students.Get("/search", handlers.CreateSearchStudentsHandler(deps.Locator, deps.Logger))
	students.Get("/:cpf", handlers.CreateGetStudentHandler(deps.Locator, deps.Logger))
	students.Post("/:cpf/generate", handlers.CreateGenerateDeclarationHandler(deps.Declarations, deps.Logger))

	return r
}
