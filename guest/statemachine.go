package guest

import (
	"context"
	"time"

	"github.com/dmitrymomot/authcore/pkg/statemachine"
)

// Events driving the guest session lifecycle.
const (
	eventSeen   = statemachine.StringEvent("seen")   // request arrives within SessionTTL
	eventExpire = statemachine.StringEvent("expire") // request arrives past SessionTTL
)

// newLifecycle builds a fresh state machine seeded at from, the session's
// persisted state. SimpleStateMachine keeps its current state in memory,
// so a long-lived instance cannot represent a session reconstructed on
// every request; callers build one, fire a single event, and discard it.
func newLifecycle(from State) statemachine.StateMachine {
	b := statemachine.NewBuilder(from)
	transitions := []struct {
		from, to State
		event    statemachine.Event
	}{
		{StateFresh, StateActive, eventSeen},
		{StateActive, StateActive, eventSeen},
		{StateFresh, StateExpired, eventExpire},
		{StateActive, StateExpired, eventExpire},
	}
	for _, t := range transitions {
		if _, err := b.From(t.from).When(t.event).To(t.to).Add(); err != nil {
			panic("guest: invalid lifecycle transition: " + err.Error())
		}
	}
	return b.Build()
}

// advance computes the next state for a session last seen at lastSeenAt,
// given now and the configured idle TTL, validating the transition through
// the state machine rather than assigning the state directly.
func advance(current State, lastSeenAt time.Time, now time.Time, ttl time.Duration) State {
	sm := newLifecycle(current)
	event := eventSeen
	if now.Sub(lastSeenAt) > ttl {
		event = eventExpire
	}

	if !sm.CanFire(context.Background(), event, nil) {
		return StateExpired
	}
	_ = sm.Fire(context.Background(), event, nil)
	return sm.Current().(State)
}
