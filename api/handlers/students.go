package handlers

import (
	"github.com/SamuelLeutner/student-declarations/api/requests"
	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/services"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

func CreateSearchStudentsHandler(locator *services.StudentLocator, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		params := new(requests.SearchStudentsRequest)
		if err := c.Bind().Query(params); err != nil {
			logger.Warn("Handler: invalid search query", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "Invalid query params"})
		}

		students, err := locator.Search(c.Context(), params.Q)
		if err != nil {
			return respondError(c, logger, "search", err)
		}
		return c.JSON(models.ListResponse[models.StudentRecord]{Data: students})
	}
}

func CreateGetStudentHandler(locator *services.StudentLocator, logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		student, err := locator.FindByCPF(c.Context(), c.Params("cpf"))
		if err != nil {
			return respondError(c, logger, "get_student", err)
		}
		return c.JSON(models.StudentResponse{Data: *student, DisplayHints: student.DisplayHints()})
	}
}
