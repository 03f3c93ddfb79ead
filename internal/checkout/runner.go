package checkout

import (
	"context"
	"sync"
	"time"

	"course-checkout/internal/client"

	"github.com/rs/zerolog"
)

// Config bounds the asynchronous operations of a checkout.
type Config struct {
	OrderCreateTimeout   time.Duration
	SessionCreateTimeout time.Duration
	PollInterval         time.Duration
	PollMaxAttempts      int
}

func (c Config) withDefaults() Config {
	if c.OrderCreateTimeout <= 0 {
		c.OrderCreateTimeout = 45 * time.Second
	}
	if c.SessionCreateTimeout <= 0 {
		c.SessionCreateTimeout = 60 * time.Second
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 2500 * time.Millisecond
	}
	if c.PollMaxAttempts <= 0 {
		c.PollMaxAttempts = 8
	}
	return c
}

// Snapshot is the observable view of a checkout after a transition.
type Snapshot struct {
	CheckoutID string  `json:"checkoutId"`
	State      State   `json:"state"`
	Context    Context `json:"context"`
}

// TransitionHook observes every state change, e.g. to persist a resumable
// record. It runs outside the checkout's lock.
type TransitionHook func(Snapshot)

// Checkout drives a single purchase. Each instance is an independent
// context scoped to one browser tab/session; concurrent checkouts by the
// same user are not coordinated here.
//
// Events are serialized through one mutex, so at most one asynchronous
// operation is in flight at a time. Effects run on their own goroutine
// tagged with the epoch current at launch; a caller event bumps the epoch,
// so a completion that lost a race (a hydration pre-empting an in-flight
// order creation) is simply discarded.
type Checkout struct {
	id     string
	userID string

	mu    sync.Mutex
	state State
	ctx   Context
	epoch uint64

	orders   client.OrderClient
	payments client.PaymentClient
	cfg      Config
	log      zerolog.Logger
	hook     TransitionHook
}

func New(id, userID string, orders client.OrderClient, payments client.PaymentClient, cfg Config, logger zerolog.Logger) *Checkout {
	return &Checkout{
		id:       id,
		userID:   userID,
		state:    StateIdle,
		orders:   orders,
		payments: payments,
		cfg:      cfg.withDefaults(),
		log:      logger.With().Str("checkout_id", id).Logger(),
	}
}

func (c *Checkout) ID() string     { return c.id }
func (c *Checkout) UserID() string { return c.userID }

// OnTransition installs the observer. Must be called before the first Send.
func (c *Checkout) OnTransition(hook TransitionHook) { c.hook = hook }

// Snapshot returns the current state and a copy of the context.
func (c *Checkout) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Checkout) snapshotLocked() Snapshot {
	return Snapshot{CheckoutID: c.id, State: c.state, Context: c.ctx}
}

// Send applies a caller event and returns the resulting snapshot. If the
// transition requests an effect it is launched asynchronously; the caller
// observes its outcome through a later Snapshot.
func (c *Checkout) Send(ev Event) Snapshot {
	c.mu.Lock()
	snap := c.applyLocked(ev)
	c.mu.Unlock()

	if c.hook != nil {
		c.hook(snap)
	}
	return snap
}

// settle feeds an effect completion back into the machine, unless a caller
// event has moved the checkout on since the effect was launched.
func (c *Checkout) settle(epoch uint64, ev Event) {
	c.mu.Lock()
	if epoch != c.epoch {
		c.mu.Unlock()
		c.log.Debug().Str("event", string(ev.Type)).Msg("discarding stale effect result")
		return
	}
	snap := c.applyLocked(ev)
	c.mu.Unlock()

	if c.hook != nil {
		c.hook(snap)
	}
}

func (c *Checkout) applyLocked(ev Event) Snapshot {
	next, nctx, eff := Transition(c.state, c.ctx, ev)
	if next != c.state || eff != nil {
		// The machine moved on: anything still in flight is now stale.
		c.epoch++
		c.log.Info().
			Str("event", string(ev.Type)).
			Str("from", string(c.state)).
			Str("to", string(next)).
			Msg("checkout transition")
	}
	c.state = next
	c.ctx = nctx
	if eff != nil {
		go c.run(c.epoch, *eff)
	}
	return c.snapshotLocked()
}

// run executes one of the five asynchronous operations and settles its
// outcome as an internal event. Failures are normalized to a single message
// here; nothing escapes past the runner.
func (c *Checkout) run(epoch uint64, eff Effect) {
	switch eff.Kind {
	case EffectCreateOrder:
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.OrderCreateTimeout)
		defer cancel()
		order, err := c.orders.CreateOrder(ctx, eff.Payload)
		if err != nil {
			c.settle(epoch, Event{Type: eventOrderFailed, Err: normalizeError(err, msgOrderCreateFailed)})
			return
		}
		c.settle(epoch, Event{Type: eventOrderCreated, Order: order})

	case EffectCreateSession:
		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.SessionCreateTimeout)
		defer cancel()
		resp, err := c.payments.CreateSession(ctx, eff.Ctx.Order.ID, eff.Ctx.Provider, eff.Ctx.SuccessURL, eff.Ctx.CancelURL)
		if err != nil {
			c.settle(epoch, Event{Type: eventSessionFailed, Err: normalizeError(err, msgSessionCreateFailed)})
			return
		}
		session, err := sessionFromResponse(eff.Ctx.Provider, resp)
		if err != nil {
			c.settle(epoch, Event{Type: eventSessionFailed, Err: normalizeError(err, msgSessionCreateFailed)})
			return
		}
		c.settle(epoch, Event{Type: eventSessionCreated, Session: session})

	case EffectResolve:
		if err := validateProof(eff.Ctx.Provider, eff.Ctx.Proof); err != nil {
			c.settle(epoch, Event{Type: eventResolveFailed, Err: normalizeError(err, msgResolveFailed)})
			return
		}
		if err := c.payments.Resolve(context.Background(), eff.Ctx.Provider, eff.Ctx.Proof); err != nil {
			c.settle(epoch, Event{Type: eventResolveFailed, Err: normalizeError(err, msgResolveFailed)})
			return
		}
		c.settle(epoch, Event{Type: eventResolveDone})

	case EffectCancel:
		// The checkout lands in cancelled whatever happens here.
		ref, err := cancelReference(eff.Ctx.Provider, eff.Ctx.Session, eff.Ctx.Proof)
		switch {
		case err == errNoSession:
			// Nothing was created provider-side; noop success.
		case err != nil:
			c.log.Warn().Err(err).Msg("cancel payment: cannot derive provider reference")
		default:
			if err := c.payments.Cancel(context.Background(), eff.Ctx.Provider, ref); err != nil {
				c.log.Warn().Str("error", normalizeError(err, msgCancelFailed)).Msg("cancel payment call failed")
			}
		}
		c.settle(epoch, Event{Type: eventCancelSettled})

	case EffectPoll:
		order, err := c.pollOrder(context.Background(), eff.Ctx.Order.ID)
		if err != nil {
			c.settle(epoch, Event{Type: eventPollFailed, Err: normalizeError(err, msgPollFailed)})
			return
		}
		c.settle(epoch, Event{Type: eventPollDone, Order: order})
	}
}
