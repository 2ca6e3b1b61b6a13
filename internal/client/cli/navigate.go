package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/models"
	"github.com/dmitrijs2005/fotogen/internal/client/router"
	"github.com/dmitrijs2005/fotogen/internal/client/services"
	"github.com/dmitrijs2005/fotogen/internal/common"
)

// maxMounts bounds page fallbacks (deep link -> home) within one Settle.
const maxMounts = 3

// Settle runs the resolver until the route is stable and mounts the page
// when the route changed since the last mount.
func (a *App) Settle(ctx context.Context) error {
	for i := 0; i < maxMounts; i++ {
		eff, err := a.resolver.Settle(ctx)
		if err != nil {
			a.notice(Notice{Title: "Error", Description: err.Error(), Destructive: true})
			return err
		}
		if eff.Kind == router.EffectWait {
			a.println("Checking your session...")
			return nil
		}

		route := a.nav.Current()
		if route == a.page && !a.remount {
			return nil
		}
		a.remount = false
		a.setPage(route)
		if !a.mount(ctx, route) {
			return nil
		}
	}
	return nil
}

// setPage records route as mounted. Leaving the training page discards the
// upload batch.
func (a *App) setPage(route string) {
	if a.page == router.RouteTraining && route != router.RouteTraining {
		a.trainingService.ClearSelection()
	}
	a.page = route
}

// mount renders the page for route. It reports whether the page moved the
// user elsewhere.
func (a *App) mount(ctx context.Context, route string) bool {
	switch {
	case route == router.RouteLogin:
		a.mountLogin(ctx)
	case route == router.RouteTraining:
		a.mountTraining()
	case router.IsHome(route) || router.IsDeepLink(route):
		return a.mountHome(ctx, route)
	case route == router.RouteRoot:
	default:
		a.notice(Notice{Title: "Page Not Found", Description: route, Destructive: true})
	}
	return false
}

func (a *App) mountLogin(ctx context.Context) {
	msg := "Sign in required. Type 'login' to continue."
	if intent, err := a.store.RedirectPath(ctx); err == nil && intent != "" {
		msg += fmt.Sprintf(" You will be taken to %s afterwards.", intent)
	}
	a.println(msg)
}

func (a *App) mountHome(ctx context.Context, route string) bool {
	ref, err := a.modelService.Resolve(ctx, route)
	switch {
	case errors.Is(err, services.ErrModelNotFound):
		if isCheckFailure(err) {
			a.notice(noticeModelCheckFailed())
		} else {
			a.notice(noticeModelNotFound())
		}
		if navErr := a.nav.Navigate(ctx, router.RouteHome); navErr != nil {
			a.log.Warn(ctx, "fallback to home failed", "error", navErr)
			return false
		}
		return true
	case errors.Is(err, common.ErrorUnauthorized):
		a.println("Sign in required. Type 'login' to continue.")
	case err != nil:
		a.log.Warn(ctx, "model check failed", "path", route, "error", err)
		a.notice(noticeModelCheckFailed())
	default:
		a.printModel(ref)
	}
	return false
}

func isCheckFailure(err error) bool {
	return errors.Is(err, client.ErrModelCheckFailed) || errors.Is(err, client.ErrUnavailable)
}

func (a *App) printModel(ref *models.ModelReference) {
	if ref == nil {
		a.println("You don't have a trained model yet. Use 'select <images...>' and 'train' to create one.")
		return
	}
	if ref.IsOwnedByUser {
		a.printf("Active model: your model (%s)\n", ref.ID)
		return
	}
	a.printf("Active model: %s shared by %s\n", ref.ID, ref.OwnerName)
}

func (a *App) mountTraining() {
	b := a.trainingService.Batch()
	if b.Len() == 0 {
		a.println("Training: no images selected. Use 'select <images...>' to pick some.")
		return
	}
	a.printf("Training: %d images selected (%.2f MB)\n", b.Len(), float64(b.TotalBytes())/(1024*1024))
	for i, f := range b.Files {
		a.printf("  %2d. %s (%s)\n", i+1, f.Name, f.PreviewURL)
	}
}

// Open navigates to path. The page is mounted by the next Settle even if
// path is the current route.
func (a *App) Open(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: open <path>")
		return nil
	}
	path := router.Clean(args[0])
	if !router.Known(path) {
		a.notice(Notice{Title: "Page Not Found", Description: path, Destructive: true})
		return nil
	}
	if err := a.nav.Navigate(ctx, path); err != nil {
		return err
	}
	a.remount = true
	return nil
}

func (a *App) Home(ctx context.Context) error {
	return a.Open(ctx, []string{router.RouteHome})
}

// Model prints the active model.
func (a *App) Model(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not signed in.")
		return nil
	}
	ref := a.modelService.Active()
	a.printModel(ref)
	if ref != nil && !ref.IsOwnedByUser {
		a.printf("Link: %s\n", router.DeepLinkPath(ref.OwnerName, ref.ID))
	}
	return nil
}

// Mine drops any shared model and goes back to the user's own one.
func (a *App) Mine(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Sign in required. Type 'login' to continue.")
		return nil
	}
	ref, err := a.modelService.SwitchToOwn(ctx)
	if err != nil {
		a.log.Warn(ctx, "own model check failed", "error", err)
		a.notice(noticeModelCheckFailed())
		return err
	}
	a.printModel(ref)

	if !router.IsHome(a.nav.Current()) {
		if err := a.nav.Navigate(ctx, router.RouteHome); err != nil {
			return err
		}
	}
	a.setPage(router.RouteHome)
	return nil
}
