package helper

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler is the app-level ErrorHandler: handlers return
// *fiber.Error for expected failures; anything else is an internal error
// logged in full and surfaced generically.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}

	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	msg := "internal server error"
	if os.Getenv("APP_ENV") != "production" {
		msg = err.Error()
	}
	return JsonError(c, fiber.StatusInternalServerError, msg)
}
