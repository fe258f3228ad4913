package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecavus/techsupport-backend/internal/models"
)

// CheckoutService mints single-use hosted checkout sessions. It never
// persists anything: a session that is created but never completed must
// leave no trace, so Customer and Order rows are written exclusively by
// the webhook reconciliation path.
type CheckoutService struct {
	catalog *models.PlanCatalog
	gateway PaymentGateway
	logger  *zap.Logger
}

func NewCheckoutService(catalog *models.PlanCatalog, gateway PaymentGateway, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		catalog: catalog,
		gateway: gateway,
		logger:  logger,
	}
}

// CreateCheckoutSession validates the plan against the catalog before
// touching the provider, so a bad plan id costs no external round-trip.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, req models.CreateCheckoutSessionRequest) (*models.CheckoutSessionResponse, error) {
	plan, err := s.catalog.Lookup(req.PlanID)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, plan, req.SuccessURL, req.CancelURL)
	if err != nil {
		s.logger.Error("checkout session creation failed",
			zap.String("plan_id", plan.ID),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.String("plan_id", plan.ID),
		zap.String("session_id", session.ID))

	return &models.CheckoutSessionResponse{URL: session.URL}, nil
}
