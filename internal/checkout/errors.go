package checkout

import "errors"

// Step-specific fallback messages, used when a failed operation yields no
// message of its own. The machine stores exactly one error at a time.
const (
	msgOrderCreateFailed   = "Order creation failed"
	msgSessionCreateFailed = "Payment session creation failed"
	msgResolveFailed       = "Payment verification failed"
	msgCancelFailed        = "Payment cancellation failed"
	msgPollFailed          = "Payment status check failed"
)

// ErrPollTimeout marks a polling run that exhausted its attempts without the
// order reaching a terminal status.
var ErrPollTimeout = errors.New("timed out waiting for payment confirmation")

// normalizeError reduces an operation failure to a single human-readable
// message: an error keeps its own message, anything empty falls back to the
// step default.
func normalizeError(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
