package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

func TestParseDeepLink(t *testing.T) {
	tests := []struct {
		path string
		want models.DeepLink
		ok   bool
	}{
		{"/home/alice/m1", models.DeepLink{Username: "alice", ModelName: "m1"}, true},
		{"/home/alice/m1/", models.DeepLink{Username: "alice", ModelName: "m1"}, true},
		{"home/bob/model-1", models.DeepLink{Username: "bob", ModelName: "model-1"}, true},
		{"/home", models.DeepLink{}, false},
		{"/home/alice", models.DeepLink{}, false},
		{"/home//m1", models.DeepLink{}, false},
		{"/home/alice/m1/extra", models.DeepLink{}, false},
		{"/training/alice/m1", models.DeepLink{}, false},
		{"", models.DeepLink{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDeepLink(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestDeepLinkPath(t *testing.T) {
	p := DeepLinkPath("alice", "m1")
	assert.Equal(t, "/home/alice/m1", p)
	assert.True(t, IsDeepLink(p))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("/"))
	assert.True(t, Known("/training/"))
	assert.True(t, Known("/home/a/b"))
	assert.False(t, Known("/settings"))
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name      string
		ev        Event
		wantPhase Phase
		want      Effect
	}{
		{
			name:      "unknown auth waits",
			ev:        Event{Path: "/home/alice/m1"},
			wantPhase: Unresolved,
			want:      Effect{Kind: EffectWait},
		},
		{
			name:      "unauthenticated deep link saves intent",
			ev:        Event{AuthKnown: true, Path: "/home/alice/m1"},
			wantPhase: Unauthenticated,
			want:      Effect{Kind: EffectSignIn, Target: RouteLogin, SaveIntent: "/home/alice/m1"},
		},
		{
			name:      "unauthenticated deep link overwrites older intent",
			ev:        Event{AuthKnown: true, Path: "/home/bob/m2", Intent: "/home/alice/m1"},
			wantPhase: Unauthenticated,
			want:      Effect{Kind: EffectSignIn, Target: RouteLogin, SaveIntent: "/home/bob/m2"},
		},
		{
			name:      "unauthenticated ordinary path",
			ev:        Event{AuthKnown: true, Path: "/training"},
			wantPhase: Unauthenticated,
			want:      Effect{Kind: EffectSignIn, Target: RouteLogin},
		},
		{
			name:      "unauthenticated on login stays",
			ev:        Event{AuthKnown: true, Path: "/login"},
			wantPhase: Unauthenticated,
			want:      Effect{Kind: EffectStay},
		},
		{
			name:      "authenticated deep link stays",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/home/alice/m1"},
			wantPhase: AuthenticatedDeepLink,
			want:      Effect{Kind: EffectStay},
		},
		{
			name:      "authenticated deep link clears stale intent",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/home/alice/m1", Intent: "/home/alice/m1"},
			wantPhase: AuthenticatedDeepLink,
			want:      Effect{Kind: EffectStayClearIntent},
		},
		{
			name:      "authenticated root with intent",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/", Intent: "/home/alice/m1"},
			wantPhase: AuthenticatedHome,
			want:      Effect{Kind: EffectNavigate, Target: "/home/alice/m1", ClearIntent: true},
		},
		{
			name:      "authenticated root without intent",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/"},
			wantPhase: AuthenticatedHome,
			want:      Effect{Kind: EffectNavigate, Target: RouteHome},
		},
		{
			name:      "authenticated login page without intent",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/login"},
			wantPhase: AuthenticatedHome,
			want:      Effect{Kind: EffectNavigate, Target: RouteHome},
		},
		{
			name:      "intent pointing at a landing route is not followed",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/", Intent: "/login"},
			wantPhase: AuthenticatedHome,
			want:      Effect{Kind: EffectNavigate, Target: RouteHome, ClearIntent: true},
		},
		{
			name:      "home with intent follows it",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/home", Intent: "/home/alice/m1"},
			wantPhase: AuthenticatedHome,
			want:      Effect{Kind: EffectNavigate, Target: "/home/alice/m1", ClearIntent: true},
		},
		{
			name:      "home without intent stays",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/home"},
			wantPhase: AuthenticatedHome,
			want:      Effect{Kind: EffectStay},
		},
		{
			name:      "other page stays",
			ev:        Event{AuthKnown: true, Authenticated: true, Path: "/training", Intent: "/home/a/b"},
			wantPhase: AuthenticatedPage,
			want:      Effect{Kind: EffectStay},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, eff := Transition(State{}, tt.ev)
			assert.Equal(t, tt.wantPhase, st.Phase)
			assert.Equal(t, tt.want, eff)
		})
	}
}

func TestTransition_NeverNavigatesToEmptyPath(t *testing.T) {
	for _, intent := range []string{"", " ", "/"} {
		_, eff := Transition(State{}, Event{AuthKnown: true, Authenticated: true, Path: "/", Intent: intent})
		assert.Equal(t, EffectNavigate, eff.Kind)
		assert.Equal(t, RouteHome, eff.Target)
	}
}

func TestPhaseAndEffectStrings(t *testing.T) {
	assert.Equal(t, "authenticated-deep-link", AuthenticatedDeepLink.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
	assert.Equal(t, "stay-clear-intent", EffectStayClearIntent.String())
	assert.Equal(t, "effect(9)", EffectKind(9).String())
}
