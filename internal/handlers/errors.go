package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"inventory/internal/dto"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
)

// writeError maps service and validation failures to HTTP responses.
func writeError(c *fiber.Ctx, err error) error {
	var validation dto.ValidationResult

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validation.Errors,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": messageOf(err)})
	case errors.Is(err, services.ErrInvalidFilter), errors.Is(err, services.ErrInvalidOperation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": messageOf(err)})
	}

	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

// messageOf prefers the client-facing message of a wrapped *services.Error.
func messageOf(err error) string {
	var target *services.Error
	if errors.As(err, &target) {
		return target.Message
	}
	return err.Error()
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// paramID reads a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, c.Params(name))
	}
	return id, nil
}
