package models

type CreateCheckoutSessionRequest struct {
	PlanID     string `json:"plan_id" validate:"required"`
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

type CreatePaymentLinkRequest struct {
	PlanID        string `json:"plan_id" validate:"required"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
}

type PaymentLinkResponse struct {
	PaymentLinkURL string `json:"payment_link_url"`
	PaymentLinkID  string `json:"payment_link_id"`
}
