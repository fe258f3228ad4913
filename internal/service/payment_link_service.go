package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ecavus/techsupport-backend/internal/models"
	"github.com/ecavus/techsupport-backend/internal/repository"
)

// PaymentLinkService mints reusable, shareable payment links for
// out-of-band distribution. Unlike checkout sessions, a link may be
// pre-associated with a customer: when an email is supplied the Customer
// row is created up front. Orders still come only from the webhook.
type PaymentLinkService struct {
	catalog     *models.PlanCatalog
	gateway     PaymentGateway
	customers   repository.CustomerRepository
	mailer      PaymentLinkMailer
	logger      *zap.Logger
	redirectURL string
}

// NewPaymentLinkService wires the link service. mailer may be nil, in
// which case links are returned but never emailed.
func NewPaymentLinkService(catalog *models.PlanCatalog, gateway PaymentGateway, customers repository.CustomerRepository, mailer PaymentLinkMailer, logger *zap.Logger, redirectURL string) *PaymentLinkService {
	return &PaymentLinkService{
		catalog:     catalog,
		gateway:     gateway,
		customers:   customers,
		mailer:      mailer,
		logger:      logger,
		redirectURL: redirectURL,
	}
}

func (s *PaymentLinkService) CreatePaymentLink(ctx context.Context, req models.CreatePaymentLinkRequest) (*models.PaymentLinkResponse, error) {
	plan, err := s.catalog.Lookup(req.PlanID)
	if err != nil {
		return nil, err
	}

	link, err := s.gateway.CreatePaymentLink(ctx, plan, s.redirectURL)
	if err != nil {
		s.logger.Error("payment link creation failed",
			zap.String("plan_id", plan.ID),
			zap.Error(err))
		return nil, err
	}

	if req.CustomerEmail != "" {
		customer, err := s.customers.GetOrCreateByEmail(req.CustomerEmail, "")
		if err != nil {
			s.logger.Error("customer resolution failed",
				zap.String("plan_id", plan.ID),
				zap.String("payment_link_id", link.ID),
				zap.Error(err))
			return nil, err
		}

		s.logger.Info("payment link associated with customer",
			zap.String("payment_link_id", link.ID),
			zap.Uint("customer_id", customer.ID))

		// Delivery is best-effort; the link is already minted and the
		// caller gets it back either way.
		if s.mailer != nil {
			if err := s.mailer.SendPaymentLink(req.CustomerEmail, plan.Name, link.URL); err != nil {
				s.logger.Warn("payment link email failed",
					zap.String("payment_link_id", link.ID),
					zap.Error(err))
			}
		}
	}

	s.logger.Info("payment link created",
		zap.String("plan_id", plan.ID),
		zap.String("payment_link_id", link.ID))

	return &models.PaymentLinkResponse{
		PaymentLinkURL: link.URL,
		PaymentLinkID:  link.ID,
	}, nil
}
