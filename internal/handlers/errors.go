package handlers

import (
	"log"

	"bazaar/internal/errs"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps the core error kinds onto HTTP statuses and renders a
// short human-readable message with a machine status code. Internals are
// never exposed.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errs.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "validation_error",
			"message": err.Error(),
		})
	case errs.IsNotFound(err):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "not_found",
			"message": err.Error(),
		})
	case errs.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  "conflict",
			"message": err.Error(),
		})
	case errs.IsIntegrity(err):
		log.Printf("Integrity error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "integrity_error",
			"message": err.Error(),
		})
	default:
		log.Printf("Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "internal_error",
			"message": "Something went wrong",
		})
	}
}

// respondValidationErrors renders field-level validator failures.
func respondValidationErrors(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return respondError(c, errs.NewValidationErrorWithCause("invalid request", err))
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = "failed on the '" + e.Tag() + "' rule"
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "validation_error",
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
