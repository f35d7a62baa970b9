package handler

import (
	"github.com/gofiber/fiber/v2"

	"posadmin/internal/response"
)

// writeFailure translates err into the uniform failure envelope with the
// mapped status. Raw detail never reaches the body; response.Fail logs it.
func writeFailure(c *fiber.Ctx, err error) error {
	return c.Status(response.HTTPStatus(err)).JSON(response.Fail[any](err))
}

// validationFailure writes a 400 failure envelope for transport-level
// input problems (bad path params, malformed bodies).
func validationFailure(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(response.Envelope[any]{
		IsSuccess: false,
		Message:   response.MsgValidation,
	})
}

// ErrorHandler returns the Fiber global error handler. Router-level
// failures (unknown route, wrong method, body too large) come out as the
// same envelope shape the handlers produce.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		msg := response.MsgUnexpected
		switch status {
		case fiber.StatusBadRequest:
			msg = response.MsgValidation
		case fiber.StatusNotFound:
			msg = response.MsgNotFound
		case fiber.StatusMethodNotAllowed:
			msg = response.MsgNotAllowed
		}

		return c.Status(status).JSON(response.Envelope[any]{
			IsSuccess: false,
			Message:   msg,
		})
	}
}
