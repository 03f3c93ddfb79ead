package handler

import (
	"errors"
	"net/http"

	"course-checkout/internal/checkout"
	"course-checkout/internal/dto"
	"course-checkout/internal/model"
	"course-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

func userIDFromContext(c echo.Context) string {
	userID, _ := c.Get("user_id").(string)
	return userID
}

func (h *CheckoutHandler) Start(c echo.Context) error {
	snap, err := h.checkoutService.Start(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, snap)
}

func (h *CheckoutHandler) Get(c echo.Context) error {
	snap, err := h.checkoutService.Get(c.Request().Context(), userIDFromContext(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *CheckoutHandler) SelectProvider(c echo.Context) error {
	var req dto.SelectProviderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	provider, ok := model.ParseProvider(req.Provider)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported provider")
	}

	return h.dispatch(c, checkout.Event{
		Type:     checkout.EventSelectProvider,
		Provider: provider,
	})
}

func (h *CheckoutHandler) CreateOrder(c echo.Context) error {
	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if len(req.CourseIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "empty order")
	}

	return h.dispatch(c, checkout.Event{
		Type: checkout.EventCreateOrder,
		Payload: model.OrderPayload{
			CourseIDs:  req.CourseIDs,
			CouponCode: req.CouponCode,
		},
	})
}

func (h *CheckoutHandler) CreateSession(c echo.Context) error {
	var req dto.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	return h.dispatch(c, checkout.Event{
		Type:       checkout.EventCreateSession,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
}

func (h *CheckoutHandler) TriggerProviderUI(c echo.Context) error {
	return h.dispatch(c, checkout.Event{Type: checkout.EventTriggerProviderUI})
}

func (h *CheckoutHandler) Confirm(c echo.Context) error {
	var req dto.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	ctx := c.Request().Context()
	userID := userIDFromContext(c)

	snap, err := h.checkoutService.Get(ctx, userID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	proof := &model.PaymentProof{
		Provider: snap.Context.Provider,
		Paypal:   req.Paypal,
		Razorpay: req.Razorpay,
		Stripe:   req.Stripe,
	}
	return h.dispatch(c, checkout.Event{
		Type:  checkout.EventPaymentConfirmed,
		Proof: proof,
	})
}

func (h *CheckoutHandler) Retry(c echo.Context) error {
	return h.dispatch(c, checkout.Event{Type: checkout.EventRetry})
}

func (h *CheckoutHandler) Cancel(c echo.Context) error {
	return h.dispatch(c, checkout.Event{Type: checkout.EventCancel})
}

func (h *CheckoutHandler) Resume(c echo.Context) error {
	snap, err := h.checkoutService.Resume(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrNothingToResume) {
			return echo.NewHTTPError(http.StatusNotFound, "no checkout to resume")
		}
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *CheckoutHandler) dispatch(c echo.Context, ev checkout.Event) error {
	snap, err := h.checkoutService.Dispatch(c.Request().Context(), userIDFromContext(c), c.Param("id"), ev)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, snap)
}

func httpError(err error) error {
	if errors.Is(err, service.ErrCheckoutNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "checkout not found")
	}
	return err
}
