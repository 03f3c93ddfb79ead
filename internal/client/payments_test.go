package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"course-checkout/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionDecodesProviderPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/payments/session", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "order-1", body["orderId"])
		assert.Equal(t, "razorpay", body["provider"])
		_, hasSuccess := body["successUrl"]
		assert.False(t, hasSuccess, "empty urls must be omitted")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"paymentId": "pmt-1",
			"status":    "created",
			"userId":    "user-1",
			"razorpay": map[string]any{
				"keyId":    "rzp_key",
				"orderId":  "rzp_o_1",
				"amount":   4900,
				"currency": "INR",
			},
		})
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL)
	session, err := c.CreateSession(context.Background(), "order-1", model.ProviderRazorpay, "", "")
	require.NoError(t, err)
	require.NotNil(t, session.Razorpay)
	assert.Equal(t, "rzp_o_1", session.Razorpay.OrderID)
	assert.Nil(t, session.Paypal)
	assert.Nil(t, session.Stripe)
}

func TestCreateSessionSurfacesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "order already paid"})
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL)
	_, err := c.CreateSession(context.Background(), "order-1", model.ProviderPaypal, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order already paid")
}

func TestResolvePostsProviderProof(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/payments/razorpay/verify", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pay_1", body["razorpay_payment_id"])
		assert.Equal(t, "order_1", body["razorpay_order_id"])
		assert.Equal(t, "sig", body["razorpay_signature"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL)
	err := c.Resolve(context.Background(), model.ProviderRazorpay, &model.PaymentProof{
		Provider: model.ProviderRazorpay,
		Razorpay: &model.RazorpayProof{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig"},
	})
	require.NoError(t, err)
}

func TestResolveUnsuccessfulIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "signature mismatch"})
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL)
	err := c.Resolve(context.Background(), model.ProviderStripe, &model.PaymentProof{
		Provider: model.ProviderStripe,
		Stripe:   &model.StripeProof{SessionID: "cs_1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature mismatch")
}

func TestGetOrderStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/orders/order-1/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "processing"})
	}))
	defer srv.Close()

	c := NewOrderClient(srv.URL)
	status, err := c.GetOrderStatus(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, model.OrderProcessing, status)
}
