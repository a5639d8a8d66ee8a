package handlers

import (
	"github.com/gofiber/fiber/v3"
)

func HandlePing(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "pong",
		"service": "student-declarations",
	})
}
