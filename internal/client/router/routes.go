// Package router decides where the client goes on every navigation.
//
// The decision itself is the pure Transition function. Resolver wraps it with
// the side effects: reading auth status and the redirect intent, navigating,
// and clearing the intent after navigation has been issued.
package router

import (
	"strings"

	"github.com/dmitrijs2005/fotogen/internal/client/models"
)

const (
	RouteRoot     = "/"
	RouteLogin    = "/login"
	RouteHome     = "/home"
	RouteTraining = "/training"
)

// Clean trims whitespace and trailing slashes and ensures a leading slash.
// An empty path stays empty.
func Clean(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// ParseDeepLink extracts the owner and model name from
// /home/{username}/{modelName}. ok is false for any other shape.
func ParseDeepLink(path string) (link models.DeepLink, ok bool) {
	p := Clean(path)
	if p == "" {
		return models.DeepLink{}, false
	}
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	if len(parts) != 3 || parts[0] != "home" || parts[1] == "" || parts[2] == "" {
		return models.DeepLink{}, false
	}
	return models.DeepLink{Username: parts[1], ModelName: parts[2]}, true
}

// DeepLinkPath builds the shareable path for a model.
func DeepLinkPath(username, modelName string) string {
	return RouteHome + "/" + username + "/" + modelName
}

// IsDeepLink reports whether path has the shared-model shape.
func IsDeepLink(path string) bool {
	_, ok := ParseDeepLink(path)
	return ok
}

// isLanding reports whether path leaves the destination to the resolver.
func isLanding(path string) bool {
	switch Clean(path) {
	case "", RouteRoot, RouteLogin:
		return true
	}
	return false
}

// IsHome reports whether path is the generic home route.
func IsHome(path string) bool {
	return Clean(path) == RouteHome
}

// Known reports whether path maps to a page.
func Known(path string) bool {
	switch Clean(path) {
	case RouteRoot, RouteLogin, RouteHome, RouteTraining:
		return true
	}
	return IsDeepLink(path)
}
