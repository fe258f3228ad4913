package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ecavus/techsupport-backend/internal/models"
	"github.com/ecavus/techsupport-backend/internal/repository"
	"github.com/ecavus/techsupport-backend/pkg/payment"
)

// WebhookService turns signed provider events into store writes. It is
// the only component that creates Orders, and the provider owns all
// redelivery: a failed delivery is retried by Stripe, so every write
// here has to be idempotent.
type WebhookService struct {
	verifier  EventVerifier
	catalog   *models.PlanCatalog
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	logger    *zap.Logger
}

func NewWebhookService(verifier EventVerifier, catalog *models.PlanCatalog, customers repository.CustomerRepository, orders repository.OrderRepository, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		verifier:  verifier,
		catalog:   catalog,
		customers: customers,
		orders:    orders,
		logger:    logger,
	}
}

// Ingest verifies and dispatches one raw delivery. A signature failure
// returns models.ErrSignatureInvalid before any store access. Event
// types we do not handle are acknowledged without error so new provider
// event types never fail closed.
func (s *WebhookService) Ingest(rawBody []byte, signatureHeader string) error {
	event, err := s.verifier.VerifyEvent(rawBody, signatureHeader)
	if err != nil {
		s.logger.Warn("webhook signature rejected", zap.Error(err))
		return err
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(event)

	case "checkout.session.expired":
		s.logger.Info("checkout session expired",
			zap.String("event_id", event.ID))

	case "invoice.paid":
		// Extension point for subscription lifecycle handling.
		s.logger.Info("invoice paid",
			zap.String("event_id", event.ID))

	case "invoice.payment_failed":
		s.logger.Warn("invoice payment failed",
			zap.String("event_id", event.ID))

	default:
		s.logger.Info("unhandled event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", event.Type))
	}

	return nil
}

func (s *WebhookService) handleCheckoutCompleted(event stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		s.logger.Error("checkout payload does not decode",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrMalformedEvent, err)
	}
	if session.ID == "" || session.Currency == "" {
		s.logger.Error("checkout payload missing required fields",
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID))
		return fmt.Errorf("%w: checkout session requires id and currency", models.ErrMalformedEvent)
	}

	customer, err := s.resolveCustomer(event.ID, &session)
	if err != nil {
		return err
	}

	// Plan context travels in the artifact metadata. A payment we cannot
	// attribute to a known plan is still recorded, but flagged for a
	// human instead of being booked against a guessed plan.
	planID := session.Metadata[payment.MetadataPlanID]
	status := models.OrderStatusCompleted
	if _, err := s.catalog.Lookup(planID); err != nil {
		status = models.OrderStatusRequiresManualReview
		s.logger.Warn("checkout has no known plan id, flagging for review",
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID),
			zap.String("plan_id", planID))
	}

	order := &models.Order{
		CustomerID:       customer.ID,
		PlanID:           planID,
		Amount:           session.AmountTotal,
		Currency:         string(session.Currency),
		Status:           status,
		StripeCheckoutID: session.ID,
	}
	if session.Customer != nil {
		order.StripeCustomerID = session.Customer.ID
	}

	created, stored, err := s.orders.CreateIfNotExists(order)
	if err != nil {
		s.logger.Error("order creation failed",
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID),
			zap.Error(err))
		return err
	}

	if !created {
		s.logger.Info("duplicate checkout delivery ignored",
			zap.String("event_id", event.ID),
			zap.String("session_id", session.ID),
			zap.Uint("order_id", stored.ID))
		return nil
	}

	s.logger.Info("order recorded",
		zap.String("event_id", event.ID),
		zap.String("session_id", session.ID),
		zap.Uint("order_id", stored.ID),
		zap.Uint("customer_id", customer.ID),
		zap.String("plan_id", planID),
		zap.String("status", status))

	return nil
}

// resolveCustomer finds or creates the customer for a completed
// checkout, trying in order: the email attached to the session, a prior
// order recorded under the session's provider customer id, and finally
// the best-effort details Stripe collected during checkout.
func (s *WebhookService) resolveCustomer(eventID string, session *stripe.CheckoutSession) (*models.Customer, error) {
	var name, detailsEmail string
	if session.CustomerDetails != nil {
		name = session.CustomerDetails.Name
		detailsEmail = session.CustomerDetails.Email
	}

	if session.CustomerEmail != "" {
		return s.customers.GetOrCreateByEmail(session.CustomerEmail, name)
	}

	if session.Customer != nil && session.Customer.ID != "" {
		existing, err := s.customers.GetByStripeCustomerID(session.Customer.ID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if detailsEmail != "" {
		return s.customers.GetOrCreateByEmail(detailsEmail, name)
	}

	s.logger.Error("checkout carries no customer identity",
		zap.String("event_id", eventID),
		zap.String("session_id", session.ID))
	return nil, fmt.Errorf("%w: no customer identity on checkout session", models.ErrMalformedEvent)
}
