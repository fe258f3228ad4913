package models

import "time"

const (
	OrderStatusCompleted = "completed"

	// OrderStatusRequiresManualReview marks a confirmed payment whose
	// checkout metadata carried no known plan id. We record the payment
	// rather than guessing a plan for it.
	OrderStatusRequiresManualReview = "requires_manual_review"
)

type Order struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	CustomerID uint   `json:"customer_id" gorm:"not null;index"`
	PlanID     string `json:"plan_id"`
	Amount     int64  `json:"amount" gorm:"not null"`
	Currency   string `json:"currency" gorm:"not null;default:'usd'"`
	Status     string `json:"status" gorm:"not null"`

	// StripeCheckoutID is the provider-assigned session or payment id.
	// The unique index is what makes webhook redelivery idempotent.
	StripeCheckoutID string `json:"stripe_checkout_id" gorm:"uniqueIndex;not null"`
	StripeCustomerID string `json:"stripe_customer_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
