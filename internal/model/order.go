package model

import "time"

// OrderStatus is the lifecycle status reported by the order backend.
type OrderStatus string

const (
	OrderCreated        OrderStatus = "created"
	OrderPendingPayment OrderStatus = "pending_payment"
	OrderProcessing     OrderStatus = "processing"
	OrderSucceeded      OrderStatus = "succeeded"
	OrderFailed         OrderStatus = "failed"
	OrderCancelled      OrderStatus = "cancelled"
	OrderExpired        OrderStatus = "expired"
	OrderRefunded       OrderStatus = "refunded"
)

// IsTerminal reports whether the backend will never move the order again.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderSucceeded || s == OrderFailed || s == OrderCancelled
}

type OrderItem struct {
	CourseID  string  `json:"courseId"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order is the purchasable transaction record owned by the order backend.
// The checkout holds a read-mostly copy and only replaces it wholesale when
// the backend reports a new snapshot.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Items           []OrderItem `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	Discount        float64     `json:"discount"`
	Total           float64     `json:"total"`
	Currency        string      `json:"currency"`
	Status          OrderStatus `json:"status"`
	PaymentProvider string      `json:"paymentProvider,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// OrderPayload is what the client sends to start an order.
type OrderPayload struct {
	CourseIDs  []string `json:"courseIds"`
	CouponCode string   `json:"couponCode,omitempty"`
}
