package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"course-checkout/internal/checkout"
	"course-checkout/internal/client"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrCheckoutNotFound = errors.New("checkout not found")
	ErrNothingToResume  = errors.New("no resumable checkout")
)

// CheckoutService owns the live checkout instances. Each instance is scoped
// to one started checkout (one browser tab/session); the service only routes
// events to it and persists its snapshots for later resumption.
type CheckoutService interface {
	Start(ctx context.Context, userID string) (checkout.Snapshot, error)
	Get(ctx context.Context, userID, checkoutID string) (checkout.Snapshot, error)
	Dispatch(ctx context.Context, userID, checkoutID string, ev checkout.Event) (checkout.Snapshot, error)
	Resume(ctx context.Context, userID string) (checkout.Snapshot, error)
}

type checkoutServiceImpl struct {
	mu   sync.RWMutex
	live map[string]*checkout.Checkout

	orders   client.OrderClient
	payments client.PaymentClient
	repo     repository.CheckoutRepository
	cfg      checkout.Config
	log      zerolog.Logger
}

func NewCheckoutService(
	orders client.OrderClient,
	payments client.PaymentClient,
	repo repository.CheckoutRepository,
	cfg checkout.Config,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		live:     make(map[string]*checkout.Checkout),
		orders:   orders,
		payments: payments,
		repo:     repo,
		cfg:      cfg,
		log:      logger,
	}
}

func (s *checkoutServiceImpl) Start(ctx context.Context, userID string) (checkout.Snapshot, error) {
	c := checkout.New(uuid.NewString(), userID, s.orders, s.payments, s.cfg, s.log)
	c.OnTransition(s.persist(c))

	s.mu.Lock()
	s.live[c.ID()] = c
	s.mu.Unlock()

	snap := c.Snapshot()
	if err := s.saveRecord(ctx, userID, snap); err != nil {
		return checkout.Snapshot{}, fmt.Errorf("persist checkout: %w", err)
	}
	return snap, nil
}

func (s *checkoutServiceImpl) Get(ctx context.Context, userID, checkoutID string) (checkout.Snapshot, error) {
	c, err := s.find(userID, checkoutID)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

func (s *checkoutServiceImpl) Dispatch(ctx context.Context, userID, checkoutID string, ev checkout.Event) (checkout.Snapshot, error) {
	c, err := s.find(userID, checkoutID)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	return c.Send(ev), nil
}

// Resume rebuilds a checkout from the latest persisted open record: the
// order is re-fetched from the backend and adopted through hydration, which
// skips order creation entirely.
func (s *checkoutServiceImpl) Resume(ctx context.Context, userID string) (checkout.Snapshot, error) {
	rec, err := s.repo.FindLatestOpen(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return checkout.Snapshot{}, ErrNothingToResume
		}
		return checkout.Snapshot{}, fmt.Errorf("load checkout record: %w", err)
	}

	order, err := s.orders.GetOrder(ctx, rec.OrderID)
	if err != nil {
		return checkout.Snapshot{}, fmt.Errorf("fetch order %s: %w", rec.OrderID, err)
	}

	snap, err := s.Start(ctx, userID)
	if err != nil {
		return checkout.Snapshot{}, err
	}
	return s.Dispatch(ctx, userID, snap.CheckoutID, checkout.Event{
		Type:     checkout.EventHydrateOrder,
		Order:    order,
		Provider: model.Provider(rec.Provider),
	})
}

func (s *checkoutServiceImpl) find(userID, checkoutID string) (*checkout.Checkout, error) {
	s.mu.RLock()
	c, ok := s.live[checkoutID]
	s.mu.RUnlock()

	if !ok || c.UserID() != userID {
		return nil, ErrCheckoutNotFound
	}
	return c, nil
}

// persist returns the transition hook for one checkout: save the snapshot,
// and drop the instance from the registry once it has finished.
func (s *checkoutServiceImpl) persist(c *checkout.Checkout) checkout.TransitionHook {
	return func(snap checkout.Snapshot) {
		if err := s.saveRecord(context.Background(), c.UserID(), snap); err != nil {
			s.log.Error().Err(err).Str("checkout_id", snap.CheckoutID).Msg("persist checkout snapshot")
		}
		if snap.State.IsTerminal() {
			s.mu.Lock()
			delete(s.live, snap.CheckoutID)
			s.mu.Unlock()
		}
	}
}

func (s *checkoutServiceImpl) saveRecord(ctx context.Context, userID string, snap checkout.Snapshot) error {
	rec := &model.CheckoutRecord{
		CheckoutID: snap.CheckoutID,
		UserID:     userID,
		Provider:   string(snap.Context.Provider),
		State:      string(snap.State),
	}
	if snap.Context.Order != nil {
		rec.OrderID = snap.Context.Order.ID
	}
	return s.repo.Save(ctx, rec)
}
