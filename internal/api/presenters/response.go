package presenters

import "github.com/gofiber/fiber/v2"

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	return ErrorResponseWithData(c, statusCode, message, err, nil)
}

// ErrorResponseWithData lets a failed read still hand the client something to
// render, such as an empty list.
func ErrorResponseWithData(c *fiber.Ctx, statusCode int, message string, err error, data any) error {
	res := Response{
		Status:  false,
		Message: message,
		Data:    data,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}
