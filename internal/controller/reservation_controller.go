package controller

import (
	"homeclean-be/internal/dto"
	"homeclean-be/internal/mapper"
	"homeclean-be/internal/pkg/serverutils"
	"homeclean-be/internal/service"
	"homeclean-be/pkg/lifecycle"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReservationController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	AcceptMatching(ctx *fiber.Ctx) error
	RejectMatching(ctx *fiber.Ctx) error
	CheckIn(ctx *fiber.Ctx) error
	CheckOut(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	ResolveRefund(ctx *fiber.Ctx) error
}

type reservationController struct {
	service service.IReservationService
}

func NewReservationController(service service.IReservationService) IReservationController {
	return &reservationController{service: service}
}

func (c *reservationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reservations", serverutils.JwtMiddleware)

	h.Post("/", c.Create)
	h.Get("/", c.List)
	h.Get("/:id/status", c.GetStatus)
	h.Get("/:id/history", c.GetHistory)
	h.Post("/:id/cancel", c.Cancel)

	// Manager-side endpoints
	h.Post("/:id/matching/:matchingId/accept", serverutils.RequireRole("manager"), c.AcceptMatching)
	h.Post("/:id/matching/:matchingId/reject", serverutils.RequireRole("manager"), c.RejectMatching)
	h.Put("/:id/checkin", serverutils.RequireRole("manager"), c.CheckIn)
	h.Put("/:id/check-out", serverutils.RequireRole("manager"), c.CheckOut)

	// Operator verdict on an open refund
	refunds := r.Group("/refunds", serverutils.JwtMiddleware, serverutils.RequireRole("operator"))
	refunds.Post("/:id/resolve", c.ResolveRefund)
}

func (c *reservationController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateReservationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	customerId, err := localsUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), customerId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Reservation created", res))
}

// List accepts ?status= in any legacy client vocabulary ('scheduled', 'W',
// 'complete', ...); the translation to the canonical enum happens here, at
// the boundary, through the one authoritative table.
func (c *reservationController) List(ctx *fiber.Ctx) error {
	customerId, err := localsUserId(ctx)
	if err != nil {
		return err
	}

	var status lifecycle.ReservationStatus
	if raw := ctx.Query("status"); raw != "" {
		status, err = mapper.ParseReservationStatus(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	items, err := c.service.List(ctx.Context(), customerId, status)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reservations", items))
}

func (c *reservationController) GetStatus(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.Status(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reservation status", res))
}

func (c *reservationController) GetHistory(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Reservation history", res))
}

func (c *reservationController) AcceptMatching(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}
	matchingId, err := paramUUID(ctx, "matchingId")
	if err != nil {
		return err
	}

	res, err := c.service.AcceptMatching(ctx.Context(), id, matchingId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Matching accepted", res))
}

func (c *reservationController) RejectMatching(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}
	matchingId, err := paramUUID(ctx, "matchingId")
	if err != nil {
		return err
	}

	var req dto.RejectMatchingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.RejectMatching(ctx.Context(), id, matchingId, req.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Matching rejected", res))
}

func (c *reservationController) CheckIn(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CheckInRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CheckIn(ctx.Context(), id, req.CheckinAt)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checked in", res))
}

func (c *reservationController) CheckOut(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CheckOutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CheckOut(ctx.Context(), id, req.CheckoutAt, req.Comment)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Checked out", res))
}

func (c *reservationController) Cancel(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CancelReservationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Cancel(ctx.Context(), id, req.Reason)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Cancellation processed", res))
}

func (c *reservationController) ResolveRefund(ctx *fiber.Ctx) error {
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.ResolveRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ResolveRefund(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Refund resolved", res))
}

func paramUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+" format")
	}
	return id, nil
}

func localsUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
	}
	return id, nil
}
