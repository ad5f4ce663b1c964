// FILE: internal/controller/payment_controller.go
package controller

import (
	"fmt"

	"homeclean-be/internal/dto"
	"homeclean-be/internal/pkg/serverutils"
	"homeclean-be/internal/service"
	"homeclean-be/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	RequestPayment(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payments")
	h.Post("/midtrans/notification", c.Webhook)

	// Protected routes
	h.Post("/request", serverutils.JwtMiddleware, c.RequestPayment)
}

func (c *paymentController) RequestPayment(ctx *fiber.Ctx) error {
	var req dto.PaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	customerIdStr, _ := ctx.Locals("user_id").(string)
	customerId, err := uuid.Parse(customerIdStr)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
	}

	res, err := c.service.RequestPayment(ctx.Context(), customerId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment requested", res))
}

func (c *paymentController) Webhook(ctx *fiber.Ctx) error {
	var req dto.GatewayCallbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		fmt.Printf("[WEBHOOK ERROR] Body parsing failed: %v\n", err)
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	err := c.service.HandleGatewayCallback(ctx.Context(), &req)
	if err != nil {
		fmt.Printf("[WEBHOOK ERROR] Handling failed for OrderId=%s: %v\n", req.OrderId, err)
		if lifecycle.CodeOf(err) != "" {
			// Fatal verdict (e.g. amount mismatch): retrying cannot fix it.
			return ctx.SendStatus(fiber.StatusBadRequest)
		}
		// Return 500 so the gateway retries the notification
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}

	return ctx.SendStatus(fiber.StatusOK)
}
