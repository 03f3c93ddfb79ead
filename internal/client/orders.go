package client

import (
	"context"
	"fmt"

	"course-checkout/internal/model"

	"github.com/go-resty/resty/v2"
)

// OrderClient is the narrow contract the checkout needs from the order
// backend.
type OrderClient interface {
	CreateOrder(ctx context.Context, payload model.OrderPayload) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetOrderStatus(ctx context.Context, orderID string) (model.OrderStatus, error)
}

type orderClientImpl struct {
	rc *resty.Client
}

func NewOrderClient(baseURL string) OrderClient {
	return &orderClientImpl{
		rc: resty.New().SetBaseURL(baseURL),
	}
}

type apiError struct {
	Message string `json:"message"`
}

type orderStatusResult struct {
	Status model.OrderStatus `json:"status"`
}

func (c *orderClientImpl) CreateOrder(ctx context.Context, payload model.OrderPayload) (*model.Order, error) {
	var (
		order  model.Order
		apiErr apiError
	)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&order).
		SetError(&apiErr).
		Post("/api/orders")
	if err != nil {
		return nil, fmt.Errorf("order backend create order: %w", err)
	}
	if resp.IsError() {
		return nil, backendError("create order", resp, apiErr)
	}
	return &order, nil
}

func (c *orderClientImpl) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var (
		order  model.Order
		apiErr apiError
	)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&order).
		SetError(&apiErr).
		Get("/api/orders/" + orderID)
	if err != nil {
		return nil, fmt.Errorf("order backend get order: %w", err)
	}
	if resp.IsError() {
		return nil, backendError("get order", resp, apiErr)
	}
	return &order, nil
}

func (c *orderClientImpl) GetOrderStatus(ctx context.Context, orderID string) (model.OrderStatus, error) {
	var (
		result orderStatusResult
		apiErr apiError
	)
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr).
		Get("/api/orders/" + orderID + "/status")
	if err != nil {
		return "", fmt.Errorf("order backend get order status: %w", err)
	}
	if resp.IsError() {
		return "", backendError("get order status", resp, apiErr)
	}
	return result.Status, nil
}

// backendError surfaces the backend's own message when it sent one, and the
// bare HTTP status otherwise.
func backendError(op string, resp *resty.Response, apiErr apiError) error {
	if apiErr.Message != "" {
		return fmt.Errorf("%s: %s", op, apiErr.Message)
	}
	return fmt.Errorf("%s: unexpected status %s", op, resp.Status())
}
