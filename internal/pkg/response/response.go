package response

import "github.com/gofiber/fiber/v3"

type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	MessageBadRequest          = "Bad request"
	MessageNotFound            = "Not found"
	MessageRateLimited         = "Rate limit exceeded"
	MessageInternalServerError = "Internal server error"
)

func JSON(c fiber.Ctx, status int, data interface{}) error {
	return c.Status(normalizeStatus(status)).JSON(data)
}

// Raw writes an already encoded JSON document without re-marshalling it.
func Raw(c fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(normalizeStatus(status)).Send(body)
}

func HTML(c fiber.Ctx, status int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(normalizeStatus(status)).Send(body)
}

func Error(c fiber.Ctx, status int, message string) error {
	st := normalizeStatus(status)
	if message == "" {
		message = defaultMessageForStatus(st)
	}
	return c.Status(st).JSON(ErrorResponse{Error: message})
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusTooManyRequests:
		return MessageRateLimited
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return fiber.ErrBadRequest.Message
	}
}
