package dto

import "course-checkout/internal/model"

type SelectProviderRequest struct {
	Provider string `json:"provider"`
}

type CreateOrderRequest struct {
	CourseIDs  []string `json:"courseIds"`
	CouponCode string   `json:"couponCode,omitempty"`
}

type CreateSessionRequest struct {
	SuccessURL string `json:"successUrl,omitempty"`
	CancelURL  string `json:"cancelUrl,omitempty"`
}

// ConfirmRequest carries the provider proof the client UI obtained. Exactly
// one variant is expected, matching the checkout's selected provider.
type ConfirmRequest struct {
	Paypal   *model.PaypalProof   `json:"paypal,omitempty"`
	Razorpay *model.RazorpayProof `json:"razorpay,omitempty"`
	Stripe   *model.StripeProof   `json:"stripe,omitempty"`
}
