package handlers

import (
	"errors"

	"github.com/SamuelLeutner/student-declarations/models"
	"github.com/SamuelLeutner/student-declarations/services"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const (
	msgUnauthorized      = "Unauthorized"
	msgCPFRequired       = "CPF required"
	msgStudentNotFound   = "Student not found"
	msgDistrato          = "Declaração indisponível para alunos com Distrato."
	msgNeedsConfirmation = "Situação cadastral diferente de ATIVO. Confirme para gerar a declaração."
	msgInternal          = "Internal Server Error"
)

// respondError maps service errors to HTTP responses. Unexpected failures
// are logged in full and answered with a generic message.
func respondError(c fiber.Ctx, logger *zap.Logger, op string, err error) error {
	if !services.IsExpected(err) {
		logger.Error("Request failed",
			zap.String("operation", op),
			zap.String("path", c.Path()),
			zap.Error(err),
			zap.Stack("stack"))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: msgInternal})
	}

	var blocked *services.BlockedError
	var confirm *services.ConfirmationRequiredError

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: msgUnauthorized})
	case errors.Is(err, services.ErrInvalidCPF):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: msgCPFRequired})
	case errors.Is(err, services.ErrStudentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: msgStudentNotFound})
	case errors.As(err, &blocked):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{Error: msgDistrato, Status: blocked.Status})
	}

	// The only expected outcome left is a pending confirmation.
	errors.As(err, &confirm)
	return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{
		Error:                msgNeedsConfirmation,
		Status:               confirm.Status,
		RequiresConfirmation: true,
	})
}
