package checkout

import (
	"errors"
	"fmt"

	"course-checkout/internal/client"
	"course-checkout/internal/model"
)

// errNoSession distinguishes "cancel before any session existed", which is a
// no-op success, from a real derivation failure.
var errNoSession = errors.New("no provider session")

// sessionFromResponse maps the backend's session response into the variant
// for the requested provider. A response missing the field the provider
// requires is a hard error and is not retried automatically.
func sessionFromResponse(provider model.Provider, resp *client.SessionResponse) (*model.ProviderSession, error) {
	switch provider {
	case model.ProviderPaypal:
		if resp.Paypal == nil || resp.Paypal.ApprovalURL == "" {
			return nil, fmt.Errorf("missing approval url in paypal session response")
		}
		return &model.ProviderSession{Provider: provider, Paypal: resp.Paypal}, nil
	case model.ProviderRazorpay:
		if resp.Razorpay == nil || resp.Razorpay.OrderID == "" {
			return nil, fmt.Errorf("missing order id in razorpay session response")
		}
		return &model.ProviderSession{Provider: provider, Razorpay: resp.Razorpay}, nil
	case model.ProviderStripe:
		if resp.Stripe == nil || resp.Stripe.ClientSecret == "" {
			return nil, fmt.Errorf("missing client secret in stripe session response")
		}
		return &model.ProviderSession{Provider: provider, Stripe: resp.Stripe}, nil
	}
	return nil, fmt.Errorf("unsupported payment provider %q", provider)
}

// validateProof checks the proof shape for the provider before any network
// call is made. Required subfields that are absent fail fast with a
// validation error.
func validateProof(provider model.Provider, proof *model.PaymentProof) error {
	switch provider {
	case model.ProviderPaypal:
		if proof == nil || proof.Paypal == nil || proof.Paypal.OrderID == "" {
			return invalidVerifyPayload(provider)
		}
	case model.ProviderRazorpay:
		if proof == nil || proof.Razorpay == nil ||
			proof.Razorpay.PaymentID == "" || proof.Razorpay.OrderID == "" || proof.Razorpay.Signature == "" {
			return invalidVerifyPayload(provider)
		}
	case model.ProviderStripe:
		if proof == nil || proof.Stripe == nil || proof.Stripe.SessionID == "" {
			return invalidVerifyPayload(provider)
		}
	default:
		return fmt.Errorf("unsupported payment provider %q", provider)
	}
	return nil
}

// invalidVerifyPayload is shown to the user as-is, hence the sentence case.
func invalidVerifyPayload(provider model.Provider) error {
	return fmt.Errorf("Invalid payload for %s verify request", provider)
}

// cancelReference derives the provider-side reference the backend needs to
// void a payment attempt. errNoSession means there is nothing to void.
func cancelReference(provider model.Provider, session *model.ProviderSession, proof *model.PaymentProof) (string, error) {
	if session == nil {
		return "", errNoSession
	}
	switch provider {
	case model.ProviderPaypal:
		if proof == nil || proof.Paypal == nil || proof.Paypal.OrderID == "" {
			return "", fmt.Errorf("missing paypal order reference for cancellation")
		}
		return proof.Paypal.OrderID, nil
	case model.ProviderRazorpay:
		if proof == nil || proof.Razorpay == nil || proof.Razorpay.PaymentID == "" {
			return "", fmt.Errorf("missing razorpay payment reference for cancellation")
		}
		return proof.Razorpay.PaymentID, nil
	case model.ProviderStripe:
		if proof == nil || proof.Stripe == nil || proof.Stripe.SessionID == "" {
			return "", fmt.Errorf("missing stripe session reference for cancellation")
		}
		return proof.Stripe.SessionID, nil
	}
	return "", fmt.Errorf("unsupported payment provider %q", provider)
}
