package repository

import "github.com/ecavus/techsupport-backend/internal/models"

// CustomerRepository is the customer side of the store. Implementations
// must make GetOrCreateByEmail atomic with respect to the unique email
// constraint so concurrent requests for the same address converge on one
// row.
type CustomerRepository interface {
	GetByEmail(email string) (*models.Customer, error)
	GetOrCreateByEmail(email, fullName string) (*models.Customer, error)
	Create(customer *models.Customer) error

	// GetByStripeCustomerID resolves a customer through any prior order
	// that recorded the given provider customer id.
	GetByStripeCustomerID(stripeCustomerID string) (*models.Customer, error)
}

// OrderRepository is the order side of the store. CreateIfNotExists keys
// on the unique stripe_checkout_id: a duplicate insert is a no-op that
// returns the already-stored order, which is what makes webhook
// redelivery idempotent.
type OrderRepository interface {
	CreateIfNotExists(order *models.Order) (created bool, stored *models.Order, err error)
}
