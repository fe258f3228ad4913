package service

import (
	"context"

	"github.com/stripe/stripe-go/v74"

	"github.com/ecavus/techsupport-backend/internal/models"
)

// PaymentGateway is the outbound provider surface the services need.
// pkg/payment.StripeService is the production implementation.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, plan models.Plan, successURL, cancelURL string) (*stripe.CheckoutSession, error)
	CreatePaymentLink(ctx context.Context, plan models.Plan, redirectURL string) (*stripe.PaymentLink, error)
}

// EventVerifier authenticates a raw webhook delivery.
type EventVerifier interface {
	VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error)
}

// PaymentLinkMailer delivers a freshly minted payment link by email.
type PaymentLinkMailer interface {
	SendPaymentLink(toEmail, planName, linkURL string) error
}
