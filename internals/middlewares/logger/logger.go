package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// RequestLogger mencatat satu baris per request, ikut membawa request
// id yang ditanam di locals "reqid" oleh main.
func RequestLogger() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Format:     "[${time}] ${locals:reqid} ${ip} ${method} ${path} -> ${status} (${latency})\n",
	})
}
