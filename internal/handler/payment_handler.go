package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ecavus/techsupport-backend/internal/models"
	"github.com/ecavus/techsupport-backend/internal/service"
	"github.com/ecavus/techsupport-backend/pkg/utils"
)

type PaymentHandler struct {
	checkoutService *service.CheckoutService
	linkService     *service.PaymentLinkService
	webhookService  *service.WebhookService
	catalog         *models.PlanCatalog
	validator       *utils.Validator
}

func NewPaymentHandler(checkoutService *service.CheckoutService, linkService *service.PaymentLinkService, webhookService *service.WebhookService, catalog *models.PlanCatalog, validator *utils.Validator) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		linkService:     linkService,
		webhookService:  webhookService,
		catalog:         catalog,
		validator:       validator,
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	var req models.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid_request"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid_request"))
	}

	resp, err := h.checkoutService.CreateCheckoutSession(c.Context(), req)
	if err != nil {
		return h.paymentError(c, err)
	}
	return c.JSON(models.SuccessResponse(resp, ""))
}

func (h *PaymentHandler) CreatePaymentLink(c *fiber.Ctx) error {
	var req models.CreatePaymentLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid_request"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid_request"))
	}

	resp, err := h.linkService.CreatePaymentLink(c.Context(), req)
	if err != nil {
		return h.paymentError(c, err)
	}
	return c.JSON(models.SuccessResponse(resp, ""))
}

// HandleWebhook receives signed provider deliveries. Signature and
// payload-shape failures return 400 so the provider stops retrying;
// store failures return 500 so it retries later.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	err := h.webhookService.Ingest(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSignatureInvalid):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid_signature"))
		case errors.Is(err, models.ErrMalformedEvent):
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("malformed_event"))
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("internal_error"))
		}
	}
	return c.JSON(fiber.Map{"received": true})
}

func (h *PaymentHandler) GetPlans(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(h.catalog.Plans(), ""))
}

func (h *PaymentHandler) paymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidPlan):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid_plan"))
	case errors.Is(err, models.ErrProviderUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse("provider_unavailable"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("internal_error"))
	}
}
