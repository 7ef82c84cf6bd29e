package utils

import "github.com/gofiber/fiber/v2"

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// OK sends a successful JSON response with optional meta information.
func OK(c *fiber.Ctx, data interface{}, message string, meta interface{}) error {
	return sendSuccess(c, fiber.StatusOK, message, data, meta)
}

// Created sends a 201 response for newly created resources.
func Created(c *fiber.Ctx, data interface{}, message string) error {
	return sendSuccess(c, fiber.StatusCreated, message, data, nil)
}

// Fail sends an error JSON response with the given status code and optional details.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	if message == "" {
		message = "error"
	}

	return c.Status(status).JSON(APIResponse{
		Success: false,
		Message: message,
		Details: details,
	})
}

func sendSuccess(c *fiber.Ctx, status int, message string, data, meta interface{}) error {
	if message == "" {
		message = "success"
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}
