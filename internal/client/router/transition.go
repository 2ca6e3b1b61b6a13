package router

import "fmt"

type Phase int

const (
	Unresolved Phase = iota
	Unauthenticated
	AuthenticatedHome
	AuthenticatedDeepLink
	AuthenticatedPage
)

func (p Phase) String() string {
	switch p {
	case Unresolved:
		return "unresolved"
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedHome:
		return "authenticated-home"
	case AuthenticatedDeepLink:
		return "authenticated-deep-link"
	case AuthenticatedPage:
		return "authenticated-page"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the resolver's view after the last transition.
type State struct {
	Phase Phase
	Path  string
}

// Event carries everything a transition may look at.
type Event struct {
	// AuthKnown is false while the identity provider has not answered yet.
	AuthKnown     bool
	Authenticated bool
	Path          string
	// Intent is the stored redirect path, "" when absent.
	Intent string
}

type EffectKind int

const (
	EffectWait EffectKind = iota
	EffectStay
	EffectSignIn
	EffectNavigate
	EffectStayClearIntent
)

func (k EffectKind) String() string {
	switch k {
	case EffectWait:
		return "wait"
	case EffectStay:
		return "stay"
	case EffectSignIn:
		return "sign-in"
	case EffectNavigate:
		return "navigate"
	case EffectStayClearIntent:
		return "stay-clear-intent"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// Effect is the side effect a transition asks for.
type Effect struct {
	Kind EffectKind
	// Target is the destination for EffectSignIn and EffectNavigate.
	Target string
	// SaveIntent is stored as the redirect intent before going to sign-in.
	SaveIntent string
	// ClearIntent asks for the intent to be cleared once navigation is issued.
	ClearIntent bool
}

// UsableIntent filters out intents that would send the user back to a
// landing route or nowhere at all. It returns the cleaned path or "".
func UsableIntent(intent string) string {
	p := Clean(intent)
	if isLanding(p) {
		return ""
	}
	return p
}

// Transition is the pure decision function of the resolver.
func Transition(_ State, ev Event) (State, Effect) {
	path := Clean(ev.Path)

	if !ev.AuthKnown {
		return State{Phase: Unresolved, Path: path}, Effect{Kind: EffectWait}
	}

	if !ev.Authenticated {
		next := State{Phase: Unauthenticated, Path: path}
		switch {
		case path == RouteLogin:
			return next, Effect{Kind: EffectStay}
		case IsDeepLink(path):
			return next, Effect{Kind: EffectSignIn, Target: RouteLogin, SaveIntent: path}
		default:
			return next, Effect{Kind: EffectSignIn, Target: RouteLogin}
		}
	}

	intent := UsableIntent(ev.Intent)
	staleIntent := Clean(ev.Intent) != ""

	switch {
	case IsDeepLink(path):
		next := State{Phase: AuthenticatedDeepLink, Path: path}
		if staleIntent {
			return next, Effect{Kind: EffectStayClearIntent}
		}
		return next, Effect{Kind: EffectStay}

	case isLanding(path):
		next := State{Phase: AuthenticatedHome, Path: path}
		if intent != "" {
			return next, Effect{Kind: EffectNavigate, Target: intent, ClearIntent: true}
		}
		return next, Effect{Kind: EffectNavigate, Target: RouteHome, ClearIntent: staleIntent}

	case IsHome(path):
		next := State{Phase: AuthenticatedHome, Path: path}
		if intent != "" {
			return next, Effect{Kind: EffectNavigate, Target: intent, ClearIntent: true}
		}
		if staleIntent {
			return next, Effect{Kind: EffectStayClearIntent}
		}
		return next, Effect{Kind: EffectStay}

	default:
		return State{Phase: AuthenticatedPage, Path: path}, Effect{Kind: EffectStay}
	}
}
