package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message"`
}

// DetailResponse is the error body of the webhook endpoint.
type DetailResponse struct {
	Detail string `json:"detail"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func Detail(c *fiber.Ctx, status int, detail string) error {
	return JSON(c, status, DetailResponse{Detail: detail})
}

// ReadinessResponse carries the first failing dependency in Details.
type ReadinessResponse struct {
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}
