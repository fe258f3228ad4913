package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecavus/techsupport-backend/internal/models"
)

func newLinkService(gateway *fakeGateway, store *memStore, fm *fakeMailer) *PaymentLinkService {
	var mailer PaymentLinkMailer
	if fm != nil {
		mailer = fm
	}
	return NewPaymentLinkService(models.DefaultPlanCatalog(), gateway, store, mailer, zap.NewNop(), "https://x.test/?success=true")
}

func TestCreatePaymentLink(t *testing.T) {
	gateway := &fakeGateway{}
	store := newMemStore()
	svc := newLinkService(gateway, store, nil)

	resp, err := svc.CreatePaymentLink(context.Background(), models.CreatePaymentLinkRequest{
		PlanID: "virus-removal",
	})

	require.NoError(t, err)
	assert.Equal(t, "plink_test_1", resp.PaymentLinkID)
	assert.Equal(t, "https://buy.stripe.test/plink_test_1", resp.PaymentLinkURL)
	assert.Equal(t, "https://x.test/?success=true", gateway.lastRedirect)

	// No email supplied: nothing is persisted.
	assert.Equal(t, 0, store.customerCount())
	assert.Equal(t, 0, store.orderCount())
}

func TestCreatePaymentLinkEagerCustomer(t *testing.T) {
	gateway := &fakeGateway{}
	store := newMemStore()
	mailer := &fakeMailer{}
	svc := newLinkService(gateway, store, mailer)

	_, err := svc.CreatePaymentLink(context.Background(), models.CreatePaymentLinkRequest{
		PlanID:        "quick-fix",
		CustomerEmail: "a@x.com",
	})

	require.NoError(t, err)
	customer, err := store.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", customer.Email)

	// The link pre-associates a customer but never an order.
	assert.Equal(t, 0, store.orderCount())
	assert.Equal(t, []string{"a@x.com"}, mailer.sent)
}

func TestCreatePaymentLinkReusesCustomer(t *testing.T) {
	gateway := &fakeGateway{}
	store := newMemStore()
	svc := newLinkService(gateway, store, nil)

	existing, err := store.GetOrCreateByEmail("a@x.com", "Alice")
	require.NoError(t, err)

	_, err = svc.CreatePaymentLink(context.Background(), models.CreatePaymentLinkRequest{
		PlanID:        "quick-fix",
		CustomerEmail: "a@x.com",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, store.customerCount())
	customer, err := store.GetByEmail("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, customer.ID)
}

func TestCreatePaymentLinkInvalidPlanSkipsProvider(t *testing.T) {
	gateway := &fakeGateway{}
	store := newMemStore()
	svc := newLinkService(gateway, store, nil)

	_, err := svc.CreatePaymentLink(context.Background(), models.CreatePaymentLinkRequest{
		PlanID:        "no-such-plan",
		CustomerEmail: "a@x.com",
	})

	assert.ErrorIs(t, err, models.ErrInvalidPlan)
	assert.Equal(t, 0, gateway.linkCalls)
	assert.Equal(t, 0, store.customerCount())
}

func TestCreatePaymentLinkMailerFailureIsNotFatal(t *testing.T) {
	gateway := &fakeGateway{}
	store := newMemStore()
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := newLinkService(gateway, store, mailer)

	resp, err := svc.CreatePaymentLink(context.Background(), models.CreatePaymentLinkRequest{
		PlanID:        "quick-fix",
		CustomerEmail: "a@x.com",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.PaymentLinkURL)
	assert.Equal(t, 1, store.customerCount())
}
