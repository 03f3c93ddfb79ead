package checkout

import (
	"context"
	"fmt"
	"time"

	"course-checkout/internal/model"
)

// pollOrder checks the order status at a fixed interval until the backend
// reports a terminal status, bounded by a maximum attempt count. A confirmed
// success returns the final order snapshot; any other terminal status is an
// error carrying that status; running out of attempts wraps ErrPollTimeout.
func (c *Checkout) pollOrder(ctx context.Context, orderID string) (*model.Order, error) {
	for attempt := 1; attempt <= c.cfg.PollMaxAttempts; attempt++ {
		timer := time.NewTimer(c.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		status, err := c.orders.GetOrderStatus(ctx, orderID)
		if err != nil {
			return nil, err
		}
		c.log.Debug().
			Int("attempt", attempt).
			Str("status", string(status)).
			Msg("order status poll")

		switch status {
		case model.OrderSucceeded:
			return c.orders.GetOrder(ctx, orderID)
		case model.OrderFailed, model.OrderCancelled:
			return nil, fmt.Errorf("payment did not complete: order is %s", status)
		}
	}
	return nil, fmt.Errorf("order %s: %w", orderID, ErrPollTimeout)
}
