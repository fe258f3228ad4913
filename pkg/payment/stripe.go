package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/ecavus/techsupport-backend/internal/models"
)

// MetadataPlanID is the metadata key carrying the plan id on checkout
// sessions and payment links, so the webhook can recover plan context
// without another provider round-trip.
const MetadataPlanID = "planId"

type StripeService struct {
	api           *client.API
	webhookSecret string
}

// NewStripeService builds a Stripe client with a bounded request timeout.
// A call that does not finish within the timeout surfaces as
// models.ErrProviderUnavailable rather than hanging the request.
func NewStripeService(secretKey, webhookSecret string, timeout time.Duration) *StripeService {
	api := client.New(secretKey, stripe.NewBackends(&http.Client{Timeout: timeout}))
	return &StripeService{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

// CreateCheckoutSession mints a single-use hosted checkout session for
// the plan.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, plan models.Plan, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	params := checkoutSessionParams(plan, successURL, cancelURL)
	params.Context = ctx

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return session, nil
}

// CreatePaymentLink mints a reusable shareable link for the plan. Stripe
// payment links require a stored price, so one is created first.
func (s *StripeService) CreatePaymentLink(ctx context.Context, plan models.Plan, redirectURL string) (*stripe.PaymentLink, error) {
	pp := priceParams(plan)
	pp.Context = ctx
	price, err := s.api.Prices.New(pp)
	if err != nil {
		return nil, mapProviderError(err)
	}

	lp := paymentLinkParams(plan, price.ID, redirectURL)
	lp.Context = ctx
	link, err := s.api.PaymentLinks.New(lp)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return link, nil
}

// VerifyEvent checks the signature header against the raw payload and
// returns the decoded event. Any verification failure maps to
// models.ErrSignatureInvalid.
func (s *StripeService) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", models.ErrSignatureInvalid, err)
	}
	return event, nil
}

// checkoutSessionParams shapes the session request from the plan's
// billing mode: recurring plans become subscription-mode sessions with a
// monthly interval, one-time plans single payments. The plan id rides in
// the session metadata.
func checkoutSessionParams(plan models.Plan, successURL, cancelURL string) *stripe.CheckoutSessionParams {
	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(plan.Price),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(plan.Name),
			Description: stripe.String(planDescription(plan)),
		},
	}

	mode := stripe.CheckoutSessionModePayment
	billingAddress := "auto"
	if plan.Recurring() {
		mode = stripe.CheckoutSessionModeSubscription
		billingAddress = "required"
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		}
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: priceData,
				Quantity:  stripe.Int64(1),
			},
		},
		SuccessURL:               stripe.String(successURL),
		CancelURL:                stripe.String(cancelURL),
		BillingAddressCollection: stripe.String(billingAddress),
	}
	params.AddMetadata(MetadataPlanID, plan.ID)
	return params
}

func priceParams(plan models.Plan) *stripe.PriceParams {
	params := &stripe.PriceParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(plan.Price),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(plan.Name),
		},
	}
	if plan.Recurring() {
		params.Recurring = &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		}
	}
	return params
}

func paymentLinkParams(plan models.Plan, priceID, redirectURL string) *stripe.PaymentLinkParams {
	params := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		AfterCompletion: &stripe.PaymentLinkAfterCompletionParams{
			Type: stripe.String("redirect"),
			Redirect: &stripe.PaymentLinkAfterCompletionRedirectParams{
				URL: stripe.String(redirectURL),
			},
		},
		AllowPromotionCodes: stripe.Bool(false),
	}
	params.AddMetadata(MetadataPlanID, plan.ID)
	return params
}

func planDescription(plan models.Plan) string {
	if plan.Recurring() {
		return fmt.Sprintf("%s - Monthly subscription", plan.Name)
	}
	return fmt.Sprintf("%s - One-time payment", plan.Name)
}

// mapProviderError folds transport failures and provider 5xx responses
// into ErrProviderUnavailable so callers can treat them as retryable.
// Stripe-reported client errors pass through unchanged.
func mapProviderError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= http.StatusInternalServerError ||
			stripeErr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
		}
		return err
	}
	// No typed error means no provider response at all: timeout,
	// connection refused, canceled context.
	return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
}
