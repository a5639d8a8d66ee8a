package handlers

import (
	"fmt"

	"github.com/SamuelLeutner/student-declarations/api/middleware"
	"github.com/SamuelLeutner/student-declarations/api/requests"
	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/services"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

func CreateGenerateDeclarationHandler(declarations *services.DeclarationService, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		params := new(requests.GenerateDeclarationRequest)
		if err := c.Bind().Query(params); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid query params"})
		}

		issued, err := declarations.Generate(c.Context(), middleware.PrincipalEmail(c), c.Params("cpf"), params.Force)
		if err != nil {
			return respondError(c, logger, "generate_declaration", err)
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, issued.Filename))
		return c.Status(fiber.StatusOK).Send(issued.PDF)
	}
}
