package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fotogen/internal/logging"
)

// Navigator changes the current route.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
	Current() string
}

// AuthChecker reports whether someone is signed in. known is false while the
// answer is not available yet.
type AuthChecker interface {
	AuthStatus(ctx context.Context) (known, authenticated bool, err error)
}

// IntentStore persists the redirect intent.
type IntentStore interface {
	RedirectPath(ctx context.Context) (string, error)
	SetRedirectPath(ctx context.Context, path string) error
	ClearRedirectPath(ctx context.Context) error
}

type Resolver struct {
	auth    AuthChecker
	intents IntentStore
	nav     Navigator
	log     logging.Logger

	mu    sync.Mutex
	state State
}

func NewResolver(auth AuthChecker, intents IntentStore, nav Navigator, log logging.Logger) *Resolver {
	if log == nil {
		log = logging.Nop{}
	}
	return &Resolver{auth: auth, intents: intents, nav: nav, log: log}
}

// State returns the state after the last Resolve.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Resolve runs one transition for path and applies its effect.
// The intent is cleared only after navigation has been issued successfully.
func (r *Resolver) Resolve(ctx context.Context, path string) (Effect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	known, authed, err := r.auth.AuthStatus(ctx)
	if err != nil {
		r.log.Warn(ctx, "auth status unavailable", "error", err)
		known = false
	}

	var intent string
	if known {
		intent, err = r.intents.RedirectPath(ctx)
		if err != nil {
			return Effect{Kind: EffectWait}, fmt.Errorf("read redirect intent: %w", err)
		}
	}

	next, eff := Transition(r.state, Event{
		AuthKnown:     known,
		Authenticated: authed,
		Path:          path,
		Intent:        intent,
	})
	r.state = next
	r.log.Debug(ctx, "route resolved", "path", next.Path, "phase", next.Phase.String(), "effect", eff.Kind.String(), "target", eff.Target)

	switch eff.Kind {
	case EffectSignIn:
		if eff.SaveIntent != "" {
			if err := r.intents.SetRedirectPath(ctx, eff.SaveIntent); err != nil {
				return eff, fmt.Errorf("save redirect intent: %w", err)
			}
		}
		if err := r.nav.Navigate(ctx, eff.Target); err != nil {
			return eff, fmt.Errorf("navigate to %s: %w", eff.Target, err)
		}

	case EffectNavigate:
		if err := r.nav.Navigate(ctx, eff.Target); err != nil {
			return eff, fmt.Errorf("navigate to %s: %w", eff.Target, err)
		}
		if eff.ClearIntent {
			if err := r.intents.ClearRedirectPath(ctx); err != nil {
				return eff, fmt.Errorf("clear redirect intent: %w", err)
			}
		}

	case EffectStayClearIntent:
		if err := r.intents.ClearRedirectPath(ctx); err != nil {
			return eff, fmt.Errorf("clear redirect intent: %w", err)
		}
	}

	return eff, nil
}

// maxSettleSteps bounds Settle. Any chain of transitions reaches a stay or
// wait well within this.
const maxSettleSteps = 4

// Settle resolves the navigator's current route repeatedly until the route
// stops changing. It returns the final effect.
func (r *Resolver) Settle(ctx context.Context) (Effect, error) {
	var eff Effect
	for i := 0; i < maxSettleSteps; i++ {
		before := r.nav.Current()
		var err error
		eff, err = r.Resolve(ctx, before)
		if err != nil {
			return eff, err
		}
		if eff.Kind != EffectNavigate && eff.Kind != EffectSignIn {
			return eff, nil
		}
		if Clean(r.nav.Current()) == Clean(before) {
			return eff, nil
		}
	}
	return eff, nil
}

// MemoryNavigator keeps the current route in memory.
type MemoryNavigator struct {
	mu      sync.Mutex
	current string
	history []string
}

func NewMemoryNavigator(start string) *MemoryNavigator {
	return &MemoryNavigator{current: Clean(start)}
}

func (n *MemoryNavigator) Navigate(_ context.Context, path string) error {
	p := Clean(path)
	if p == "" {
		return fmt.Errorf("empty navigation target")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = p
	n.history = append(n.history, p)
	return nil
}

func (n *MemoryNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// History lists every navigation target in order.
func (n *MemoryNavigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.history))
	copy(out, n.history)
	return out
}
