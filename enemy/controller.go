package enemy

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/milk9111/sentry/common"
)

// Controller is the enemy's state machine. The host calls Update once per
// frame, OnOverlap for trigger events and ApplyDamage when something hits
// the agent.
//
// Update and OnOverlap are expected on the host's frame goroutine.
// ApplyDamage may come from anywhere. Capabilities and hooks are called with
// the controller locked and must not call back into it.
type Controller struct {
	mu sync.Mutex

	cfg  Config
	refs Refs

	body Body
	nav  Navigator
	ray  Raycaster
	anim Animator
	life Lifecycle
	fire FireHook

	logger       zerolog.Logger
	onTransition func(from, to State)

	state    State
	health   int
	nextFire float64
	dead     bool
}

type Option func(*Controller)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

func WithFireHook(h FireHook) Option {
	return func(c *Controller) {
		c.fire = h
	}
}

// WithTransitionObserver registers fn to run after every state change.
func WithTransitionObserver(fn func(from, to State)) Option {
	return func(c *Controller) {
		c.onTransition = fn
	}
}

// New builds a controller at full health in MovingToPoint and sends the
// navigator toward the end point.
func New(cfg Config, refs Refs, caps Capabilities, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case caps.Body == nil:
		return nil, fmt.Errorf("%w: body", ErrMissingCapability)
	case caps.Nav == nil:
		return nil, fmt.Errorf("%w: navigator", ErrMissingCapability)
	case caps.Raycaster == nil:
		return nil, fmt.Errorf("%w: raycaster", ErrMissingCapability)
	case caps.Animator == nil:
		return nil, fmt.Errorf("%w: animator", ErrMissingCapability)
	}

	c := &Controller{
		cfg:    cfg,
		refs:   refs,
		body:   caps.Body,
		nav:    caps.Nav,
		ray:    caps.Raycaster,
		anim:   caps.Animator,
		life:   caps.Lifecycle,
		logger: zerolog.Nop(),
		state:  MovingToPoint,
		health: cfg.MaxHealth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = c.logger.With().Str("component", "enemy").Uint64("entity", uint64(refs.Self)).Logger()

	if refs.EndPoint != nil {
		c.nav.SetDestination(refs.EndPoint.Position())
	}
	return c, nil
}

// Update runs one tick of the state machine. It does nothing once the agent
// is dead.
func (c *Controller) Update(f Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead {
		return
	}

	current := c.state
	switch current {
	case MovingToPoint:
		if c.refs.EndPoint != nil {
			c.nav.SetDestination(c.refs.EndPoint.Position())
		}
		if c.arrived() {
			c.setState(Idle)
		}
		c.anim.Play(animationFor(current))
		c.detectPlayer()
	case Idle:
		c.anim.Play(animationFor(current))
		c.detectPlayer()
	case Combat:
		c.anim.Play(animationFor(current))
		c.combat(f)
	case TakingCover:
		c.anim.Play(animationFor(current))
		c.takeCover()
	}
}

// ApplyDamage subtracts amount from health. Reaching zero kills the agent
// exactly once; later calls are ignored, as are non-positive amounts.
func (c *Controller) ApplyDamage(amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead || amount <= 0 {
		return
	}
	c.health -= amount
	if c.health <= 0 {
		c.health = 0
		c.die()
	}
}

func (c *Controller) die() {
	c.dead = true
	c.logger.Info().Str("state", c.state.String()).Msg("enemy died")
	c.anim.Play(AnimDead)
	if c.life != nil {
		c.life.Destroy()
	}
}

func (c *Controller) arrived() bool {
	return !c.nav.PathPending() && c.nav.RemainingDistance() < common.ArrivalThreshold
}

func (c *Controller) setState(next State) {
	if next == c.state {
		return
	}
	prev := c.state
	c.state = next
	c.logger.Debug().Str("from", prev.String()).Str("to", next.String()).Msg("state change")
	if c.onTransition != nil {
		c.onTransition(prev, next)
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Health() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}

func (c *Controller) Dead() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dead
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) ID() EntityID {
	return c.refs.Self
}
