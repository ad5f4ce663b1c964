package serverutils

import (
	"errors"

	"homeclean-be/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping a handler into the JSON
// envelope. Lifecycle failure codes get their contractual HTTP status so
// clients can distinguish "already cancelled" from "refund rejected" without
// string matching.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if code := lifecycle.CodeOf(err); code != "" {
			status := statusForLifecycleCode(code)
			return ctx.Status(status).JSON(DomainErrorResponse(status, string(code), err.Error()))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, err.Error()))
	}
}

func statusForLifecycleCode(code lifecycle.Code) int {
	switch code {
	case lifecycle.CodeInvalidTransition, lifecycle.CodeDuplicateDecision, lifecycle.CodeRefundRejected:
		return fiber.StatusConflict
	case lifecycle.CodePaymentAmountMismatch:
		return fiber.StatusBadRequest
	case lifecycle.CodeAlreadyCancelled:
		// Idempotent no-op: repeating a cancel is not a client fault.
		return fiber.StatusOK
	default:
		return fiber.StatusInternalServerError
	}
}
