package model

// Provider names one of the supported external payment rails.
type Provider string

const (
	ProviderStripe   Provider = "stripe"
	ProviderPaypal   Provider = "paypal"
	ProviderRazorpay Provider = "razorpay"
)

// ParseProvider returns the provider for s, or ok=false for anything the
// checkout does not support.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderStripe, ProviderPaypal, ProviderRazorpay:
		return Provider(s), true
	}
	return "", false
}

// PaypalSession carries what the UI needs to redirect into PayPal approval.
type PaypalSession struct {
	ApprovalURL string  `json:"approvalUrl"`
	Amount      float64 `json:"amount"`
}

// RazorpaySession carries what the Razorpay widget needs to open.
type RazorpaySession struct {
	KeyID    string `json:"keyId"`
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// StripeSession carries the client secret for the Stripe payment element.
type StripeSession struct {
	ClientSecret string `json:"clientSecret"`
}

// ProviderSession is ephemeral, provider-specific data needed to render or
// redirect into a payment flow. Exactly one variant is populated, matching
// Provider. It lives between session creation and payment resolution and is
// discarded on provider change, retry, or a terminal transition.
type ProviderSession struct {
	Provider Provider         `json:"provider"`
	Paypal   *PaypalSession   `json:"paypal,omitempty"`
	Razorpay *RazorpaySession `json:"razorpay,omitempty"`
	Stripe   *StripeSession   `json:"stripe,omitempty"`
}

// PaypalProof is the approval evidence the client obtains from PayPal.
type PaypalProof struct {
	OrderID string `json:"orderID"`
	PayerID string `json:"payerID,omitempty"`
}

// RazorpayProof is the signed payment/order identifier pair from the widget.
type RazorpayProof struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

// StripeProof identifies the completed Stripe session.
type StripeProof struct {
	SessionID string `json:"sessionId"`
}

// PaymentProof is the client-obtained evidence that a payment action
// completed, passed back for server-side resolution. Exactly one variant is
// populated, matching Provider.
type PaymentProof struct {
	Provider Provider       `json:"provider"`
	Paypal   *PaypalProof   `json:"paypal,omitempty"`
	Razorpay *RazorpayProof `json:"razorpay,omitempty"`
	Stripe   *StripeProof   `json:"stripe,omitempty"`
}
