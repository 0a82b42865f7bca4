package machine

import (
	"time"

	"petsim/internal/pet"
)

// Mutator applies fn to the selected pet under the store's lock and persists the
// result. ok is false when there is no selected pet.
type Mutator interface {
	MutateSelected(fn func(pet.State) pet.State) (s pet.State, ok bool)
}

// Observer receives every effect the controller produces.
type Observer interface {
	Observe(Effect)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Effect)

func (f ObserverFunc) Observe(e Effect) { f(e) }

// Controller posts events for the selected pet of a store.
type Controller struct {
	store     Mutator
	now       func() time.Time
	observers []Observer
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the controller's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithObserver registers o for every effect.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

func NewController(store Mutator, opts ...Option) *Controller {
	c := &Controller{store: store, now: func() time.Time { return pet.TimeNow() }}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post dispatches ev against the selected pet in a single store mutation.
func (c *Controller) Post(ev Event) (pet.State, []Effect) {
	now := c.now()
	var effects []Effect
	s, ok := c.store.MutateSelected(func(s pet.State) pet.State {
		next, eff := Dispatch(s, ev, now)
		effects = eff
		return next
	})
	if !ok {
		return s, nil
	}
	for _, e := range effects {
		for _, o := range c.observers {
			o.Observe(e)
		}
	}
	return s, effects
}

// Act posts the event for a.
func (c *Controller) Act(a pet.Action) (pet.State, []Effect) {
	return c.Post(Event(a))
}

func (c *Controller) Feed() pet.State  { s, _ := c.Post(EventFeed); return s }
func (c *Controller) Play() pet.State  { s, _ := c.Post(EventPlay); return s }
func (c *Controller) Sleep() pet.State { s, _ := c.Post(EventSleep); return s }
func (c *Controller) Clean() pet.State { s, _ := c.Post(EventClean); return s }
func (c *Controller) Heal() pet.State  { s, _ := c.Post(EventHeal); return s }
func (c *Controller) Scold() pet.State { s, _ := c.Post(EventScold); return s }
func (c *Controller) Tick() pet.State  { s, _ := c.Post(EventTick); return s }
func (c *Controller) Die() pet.State   { s, _ := c.Post(EventDie); return s }
