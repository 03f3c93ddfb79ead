package checkout

import "course-checkout/internal/model"

// State is the externally visible position of a checkout.
type State string

const (
	StateIdle             State = "idle"
	StateCreatingOrder    State = "creatingOrder"
	StateOrderCreated     State = "orderCreated"
	StateCreatingSession  State = "creatingProviderSession"
	StateAwaitingProvider State = "awaitingProvider"
	StateProviderUI       State = "providerUI"
	StateResolvingPayment State = "resolvingPayment"
	StatePolling          State = "polling"
	StateSucceeded        State = "succeeded"
	StateFailure          State = "failure"
	StateCancelPayment    State = "cancelPayment"
	StateCancelled        State = "cancelled"
)

// IsTerminal reports whether no further events are accepted. A new checkout
// requires a fresh context.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateCancelled
}

// EventType identifies a checkout event. The exported values are raised by
// the caller; the unexported ones are completions fed back by the effect
// runner when an asynchronous operation settles.
type EventType string

const (
	EventSelectProvider    EventType = "SELECT_PROVIDER"
	EventCreateOrder       EventType = "CREATE_ORDER"
	EventHydrateOrder      EventType = "HYDRATE_ORDER"
	EventCreateSession     EventType = "CREATE_PROVIDER_SESSION"
	EventTriggerProviderUI EventType = "TRIGGER_PROVIDER_UI"
	EventPaymentConfirmed  EventType = "PAYMENT_CONFIRMED_CLIENT"
	EventRetry             EventType = "RETRY"
	EventCancel            EventType = "CANCEL"

	eventOrderCreated   EventType = "order.created"
	eventOrderFailed    EventType = "order.failed"
	eventSessionCreated EventType = "session.created"
	eventSessionFailed  EventType = "session.failed"
	eventResolveDone    EventType = "resolve.done"
	eventResolveFailed  EventType = "resolve.failed"
	eventPollDone       EventType = "poll.done"
	eventPollFailed     EventType = "poll.failed"
	eventCancelSettled  EventType = "cancel.settled"
)

// Event carries an event type plus whatever payload that type needs. Unused
// fields are left zero.
type Event struct {
	Type       EventType
	Provider   model.Provider
	Payload    model.OrderPayload
	Order      *model.Order
	Session    *model.ProviderSession
	Proof      *model.PaymentProof
	SuccessURL string
	CancelURL  string
	Err        string
}

// Context is the sole mutable state of a checkout: the order snapshot, the
// selected provider, the live provider session, the last client proof, and
// the last error message. All transitions replace fields of this aggregate.
type Context struct {
	Order      *model.Order           `json:"order,omitempty"`
	Provider   model.Provider         `json:"provider,omitempty"`
	Session    *model.ProviderSession `json:"session,omitempty"`
	Proof      *model.PaymentProof    `json:"proof,omitempty"`
	Err        string                 `json:"error,omitempty"`
	SuccessURL string                 `json:"successUrl,omitempty"`
	CancelURL  string                 `json:"cancelUrl,omitempty"`
}

// EffectKind names one of the five asynchronous operations.
type EffectKind string

const (
	EffectCreateOrder   EffectKind = "createOrder"
	EffectCreateSession EffectKind = "createProviderSession"
	EffectResolve       EffectKind = "resolvePayment"
	EffectCancel        EffectKind = "cancelPayment"
	EffectPoll          EffectKind = "pollOrder"
)

// Effect is a request for the runner to perform an asynchronous operation.
// It carries a copy of the context as it was when the effect was requested,
// so the pure core never shares mutable state with the runner.
type Effect struct {
	Kind    EffectKind
	Ctx     Context
	Payload model.OrderPayload
}

// Transition is the pure core of the checkout: given the current state,
// context and an event it returns the next state, the updated context, and
// an optional effect request. Events not defined for the current state are
// idempotent no-ops: state and context come back unchanged with no effect.
// Side effects are executed by the runner, never here.
func Transition(st State, ctx Context, ev Event) (State, Context, *Effect) {
	switch st {
	case StateIdle:
		switch ev.Type {
		case EventSelectProvider:
			return st, selectProvider(ctx, ev.Provider), nil
		case EventHydrateOrder:
			return StateOrderCreated, hydrate(ctx, ev), nil
		case EventCreateOrder:
			ctx.Err = ""
			return StateCreatingOrder, ctx, &Effect{Kind: EffectCreateOrder, Ctx: ctx, Payload: ev.Payload}
		}

	case StateCreatingOrder:
		switch ev.Type {
		case eventOrderCreated:
			ctx.Order = ev.Order
			return StateOrderCreated, ctx, nil
		case eventOrderFailed:
			ctx.Err = ev.Err
			return StateFailure, ctx, nil
		case EventHydrateOrder:
			// Pre-empts the in-flight creation; its result is discarded.
			return StateOrderCreated, hydrate(ctx, ev), nil
		}

	case StateOrderCreated:
		switch ev.Type {
		case EventSelectProvider:
			return st, selectProvider(ctx, ev.Provider), nil
		case EventCreateSession:
			if ctx.Order == nil || ctx.Provider == "" {
				return st, ctx, nil
			}
			ctx.Err = ""
			ctx.SuccessURL = ev.SuccessURL
			ctx.CancelURL = ev.CancelURL
			return StateCreatingSession, ctx, &Effect{Kind: EffectCreateSession, Ctx: ctx}
		case EventCancel:
			return StateCancelPayment, ctx, &Effect{Kind: EffectCancel, Ctx: ctx}
		}

	case StateCreatingSession:
		switch ev.Type {
		case eventSessionCreated:
			ctx.Session = ev.Session
			return StateAwaitingProvider, ctx, nil
		case eventSessionFailed:
			ctx.Err = ev.Err
			return StateFailure, ctx, nil
		}

	case StateAwaitingProvider:
		switch ev.Type {
		case EventTriggerProviderUI:
			return StateProviderUI, ctx, nil
		case EventCancel:
			return StateCancelPayment, ctx, &Effect{Kind: EffectCancel, Ctx: ctx}
		}

	case StateProviderUI:
		switch ev.Type {
		case EventPaymentConfirmed:
			ctx.Proof = ev.Proof
			ctx.Err = ""
			return StateResolvingPayment, ctx, &Effect{Kind: EffectResolve, Ctx: ctx}
		case EventCancel:
			return StateCancelPayment, ctx, &Effect{Kind: EffectCancel, Ctx: ctx}
		}

	case StateResolvingPayment:
		switch ev.Type {
		case eventResolveDone:
			ctx.Err = ""
			return StatePolling, ctx, &Effect{Kind: EffectPoll, Ctx: ctx}
		case eventResolveFailed:
			ctx.Err = ev.Err
			return StateFailure, ctx, nil
		}

	case StatePolling:
		switch ev.Type {
		case eventPollDone:
			ctx.Order = ev.Order
			return StateSucceeded, ctx, nil
		case eventPollFailed:
			ctx.Err = ev.Err
			return StateFailure, ctx, nil
		}

	case StateFailure:
		switch ev.Type {
		case EventRetry:
			// Retrying only re-attempts session creation, and only while
			// the order, provider and a previous session are still present.
			if ctx.Order == nil || ctx.Provider == "" || ctx.Session == nil {
				return st, ctx, nil
			}
			ctx.Err = ""
			return StateCreatingSession, ctx, &Effect{Kind: EffectCreateSession, Ctx: ctx}
		case EventCreateOrder:
			ctx.Err = ""
			return StateCreatingOrder, ctx, &Effect{Kind: EffectCreateOrder, Ctx: ctx, Payload: ev.Payload}
		case EventHydrateOrder:
			return StateOrderCreated, hydrate(ctx, ev), nil
		case EventCancel:
			return StateCancelPayment, ctx, &Effect{Kind: EffectCancel, Ctx: ctx}
		}

	case StateCancelPayment:
		if ev.Type == eventCancelSettled {
			return StateCancelled, ctx, nil
		}
	}

	return st, ctx, nil
}

// selectProvider stores the choice and drops any session and proof tied to
// the previous provider, so session data never mixes across providers.
func selectProvider(ctx Context, p model.Provider) Context {
	ctx.Provider = p
	ctx.Session = nil
	ctx.Proof = nil
	ctx.Err = ""
	return ctx
}

// hydrate adopts a previously persisted order wholesale. The provider is
// taken from the event if given, otherwise from the order's own payment
// provider field; an absent or unrecognized value leaves the prior provider
// untouched. Hydration always lands in orderCreated, even when the order is
// already terminal — resuming polling is the caller's decision.
func hydrate(ctx Context, ev Event) Context {
	ctx.Order = ev.Order
	if ev.Provider != "" {
		if p, ok := model.ParseProvider(string(ev.Provider)); ok {
			ctx.Provider = p
		}
	} else if ev.Order != nil {
		if p, ok := model.ParseProvider(ev.Order.PaymentProvider); ok {
			ctx.Provider = p
		}
	}
	return ctx
}
