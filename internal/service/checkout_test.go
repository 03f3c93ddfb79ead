package service

import (
	"context"
	"testing"
	"time"

	"course-checkout/internal/checkout"
	"course-checkout/internal/client"
	"course-checkout/internal/model"
	"course-checkout/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeOrderClient struct {
	getOrder func(ctx context.Context, orderID string) (*model.Order, error)
}

func (f *fakeOrderClient) CreateOrder(ctx context.Context, payload model.OrderPayload) (*model.Order, error) {
	return nil, nil
}

func (f *fakeOrderClient) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return f.getOrder(ctx, orderID)
}

func (f *fakeOrderClient) GetOrderStatus(ctx context.Context, orderID string) (model.OrderStatus, error) {
	return model.OrderProcessing, nil
}

type fakePaymentClient struct{}

func (f *fakePaymentClient) CreateSession(ctx context.Context, orderID string, provider model.Provider, successURL, cancelURL string) (*client.SessionResponse, error) {
	return nil, nil
}

func (f *fakePaymentClient) Resolve(ctx context.Context, provider model.Provider, proof *model.PaymentProof) error {
	return nil
}

func (f *fakePaymentClient) Cancel(ctx context.Context, provider model.Provider, reference string) error {
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.CheckoutRecord{}))
	return db
}

func newTestService(t *testing.T, orders client.OrderClient, db *gorm.DB) CheckoutService {
	t.Helper()
	return NewCheckoutService(
		orders,
		&fakePaymentClient{},
		repository.NewCheckoutRepository(db),
		checkout.Config{PollInterval: time.Millisecond, PollMaxAttempts: 2},
		zerolog.Nop(),
	)
}

func TestStartPersistsRecord(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, &fakeOrderClient{}, db)

	snap, err := svc.Start(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, checkout.StateIdle, snap.State)
	require.NotEmpty(t, snap.CheckoutID)

	var rec model.CheckoutRecord
	require.NoError(t, db.Where("checkout_id = ?", snap.CheckoutID).First(&rec).Error)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "idle", rec.State)
}

func TestDispatchUpdatesRecord(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, &fakeOrderClient{}, db)

	snap, err := svc.Start(context.Background(), "user-1")
	require.NoError(t, err)

	snap, err = svc.Dispatch(context.Background(), "user-1", snap.CheckoutID, checkout.Event{
		Type:     checkout.EventSelectProvider,
		Provider: model.ProviderRazorpay,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProviderRazorpay, snap.Context.Provider)

	var rec model.CheckoutRecord
	require.NoError(t, db.Where("checkout_id = ?", snap.CheckoutID).First(&rec).Error)
	assert.Equal(t, "razorpay", rec.Provider)
}

func TestGetRejectsUnknownAndForeignCheckouts(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, &fakeOrderClient{}, db)

	snap, err := svc.Start(context.Background(), "user-1")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), "user-1", "nope")
	assert.ErrorIs(t, err, ErrCheckoutNotFound)

	_, err = svc.Get(context.Background(), "someone-else", snap.CheckoutID)
	assert.ErrorIs(t, err, ErrCheckoutNotFound)
}

func TestResumeHydratesFromPersistedRecord(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.CheckoutRecord{
		CheckoutID: "chk-old",
		UserID:     "user-1",
		OrderID:    "order-7",
		Provider:   "razorpay",
		State:      "failure",
	}).Error)

	orders := &fakeOrderClient{
		getOrder: func(_ context.Context, orderID string) (*model.Order, error) {
			require.Equal(t, "order-7", orderID)
			return &model.Order{ID: "order-7", UserID: "user-1", Status: model.OrderPendingPayment}, nil
		},
	}
	svc := newTestService(t, orders, db)

	snap, err := svc.Resume(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, checkout.StateOrderCreated, snap.State)
	require.NotNil(t, snap.Context.Order)
	assert.Equal(t, "order-7", snap.Context.Order.ID)
	assert.Equal(t, model.ProviderRazorpay, snap.Context.Provider)
	assert.NotEqual(t, "chk-old", snap.CheckoutID)
}

func TestResumeWithNothingOpen(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, &fakeOrderClient{}, db)

	_, err := svc.Resume(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNothingToResume)
}

// A finished checkout leaves the registry; only its record remains.
func TestTerminalCheckoutIsEvicted(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(t, &fakeOrderClient{}, db)

	snap, err := svc.Start(context.Background(), "user-1")
	require.NoError(t, err)

	_, err = svc.Dispatch(context.Background(), "user-1", snap.CheckoutID, checkout.Event{
		Type:  checkout.EventHydrateOrder,
		Order: &model.Order{ID: "order-1", Status: model.OrderPendingPayment},
	})
	require.NoError(t, err)

	_, err = svc.Dispatch(context.Background(), "user-1", snap.CheckoutID, checkout.Event{Type: checkout.EventCancel})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := svc.Get(context.Background(), "user-1", snap.CheckoutID)
		return err == ErrCheckoutNotFound
	}, 2*time.Second, time.Millisecond)

	var rec model.CheckoutRecord
	require.NoError(t, db.Where("checkout_id = ?", snap.CheckoutID).First(&rec).Error)
	assert.Equal(t, "cancelled", rec.State)
}
