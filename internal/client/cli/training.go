package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/fotogen/internal/client/router"
)

// expandPaths resolves shell-style patterns. A pattern with no match is
// kept as is so the error names it.
func expandPaths(args []string) []string {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			out = append(out, arg)
			continue
		}
		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			out = append(out, arg)
			continue
		}
		out = append(out, matches...)
	}
	return out
}

func (a *App) openTraining(ctx context.Context) error {
	if a.nav.Current() == router.RouteTraining {
		return nil
	}
	return a.nav.Navigate(ctx, router.RouteTraining)
}

// Select replaces the training selection and shows the training page.
func (a *App) Select(ctx context.Context, args []string) error {
	if len(args) == 0 {
		line, err := getSimpleText(a.reader, "Enter image paths separated by spaces", a.out)
		if err != nil {
			return err
		}
		args = strings.Fields(line)
	}

	if err := a.openTraining(ctx); err != nil {
		return err
	}
	// Remount so the summary reflects the new selection.
	a.remount = true

	batch, err := a.trainingService.Select(ctx, expandPaths(args))
	if err != nil {
		a.notice(selectionNotice(err))
		return err
	}

	a.notice(noticeImagesSelected(batch.Len()))
	return nil
}

// Train packages the selection and submits it for training.
func (a *App) Train(ctx context.Context) error {
	if err := a.openTraining(ctx); err != nil {
		return err
	}
	a.setPage(router.RouteTraining)

	a.trainingFiles = a.trainingService.Batch().Len()
	res, err := a.trainingService.Start(ctx)
	if err != nil {
		a.log.Warn(ctx, "training failed", "error", err)
		a.notice(trainingNotice(err))
		return err
	}

	a.notice(noticeTrainingStarted())
	a.printf("Model id: %s\n", res.ModelID)
	return nil
}
