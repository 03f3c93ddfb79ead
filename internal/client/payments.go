package client

import (
	"context"
	"fmt"

	"course-checkout/internal/model"

	"github.com/go-resty/resty/v2"
)

// SessionResponse is the payment backend's answer to a session-create call.
// Exactly one of the provider payloads is populated, matching the requested
// provider.
type SessionResponse struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
	UserID    string `json:"userId"`
	Email     string `json:"email,omitempty"`
	Contact   string `json:"contact,omitempty"`

	Paypal   *model.PaypalSession   `json:"paypal,omitempty"`
	Razorpay *model.RazorpaySession `json:"razorpay,omitempty"`
	Stripe   *model.StripeSession   `json:"stripe,omitempty"`
}

type resolveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// PaymentClient is the uniform contract over the three payment-provider
// backends. The checkout treats them as black boxes behind this interface.
type PaymentClient interface {
	CreateSession(ctx context.Context, orderID string, provider model.Provider, successURL, cancelURL string) (*SessionResponse, error)
	Resolve(ctx context.Context, provider model.Provider, proof *model.PaymentProof) error
	Cancel(ctx context.Context, provider model.Provider, reference string) error
}

type paymentClientImpl struct {
	rc *resty.Client
}

func NewPaymentClient(baseURL string) PaymentClient {
	return &paymentClientImpl{
		rc: resty.New().SetBaseURL(baseURL),
	}
}

func (c *paymentClientImpl) CreateSession(ctx context.Context, orderID string, provider model.Provider, successURL, cancelURL string) (*SessionResponse, error) {
	body := map[string]string{
		"orderId":  orderID,
		"provider": string(provider),
	}
	if successURL != "" {
		body["successUrl"] = successURL
	}
	if cancelURL != "" {
		body["cancelUrl"] = cancelURL
	}

	var (
		session SessionResponse
		apiErr  apiError
	)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&session).
		SetError(&apiErr).
		Post("/api/payments/session")
	if err != nil {
		return nil, fmt.Errorf("payment backend create session: %w", err)
	}
	if resp.IsError() {
		return nil, backendError("create session", resp, apiErr)
	}
	return &session, nil
}

func (c *paymentClientImpl) Resolve(ctx context.Context, provider model.Provider, proof *model.PaymentProof) error {
	var body any
	switch provider {
	case model.ProviderPaypal:
		body = proof.Paypal
	case model.ProviderRazorpay:
		body = proof.Razorpay
	case model.ProviderStripe:
		body = proof.Stripe
	default:
		return fmt.Errorf("resolve payment: unsupported provider %q", provider)
	}

	var (
		result resolveResult
		apiErr apiError
	)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/payments/" + string(provider) + "/verify")
	if err != nil {
		return fmt.Errorf("payment backend verify: %w", err)
	}
	if resp.IsError() {
		return backendError("verify payment", resp, apiErr)
	}
	if !result.Success {
		if result.Message != "" {
			return fmt.Errorf("verify payment: %s", result.Message)
		}
		return fmt.Errorf("verify payment: backend reported failure")
	}
	return nil
}

func (c *paymentClientImpl) Cancel(ctx context.Context, provider model.Provider, reference string) error {
	var apiErr apiError
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(map[string]string{"reference": reference}).
		SetError(&apiErr).
		Post("/api/payments/" + string(provider) + "/cancel")
	if err != nil {
		return fmt.Errorf("payment backend cancel: %w", err)
	}
	if resp.IsError() {
		return backendError("cancel payment", resp, apiErr)
	}
	return nil
}
