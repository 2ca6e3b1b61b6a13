package cli

import (
	"context"
	"strconv"
	"time"
)

const defaultHistoryLimit = 10

const historyTimeLayout = "2006-01-02 15:04"

// History lists recent training attempts and generated images.
// "history clear" wipes both, "history <n>" changes the limit.
func (a *App) History(ctx context.Context, args []string) error {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		if args[0] == "clear" {
			if err := a.historyService.Clear(ctx); err != nil {
				return err
			}
			a.println("History cleared.")
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			a.println("Usage: history [n|clear]")
			return nil
		}
		limit = n
	}

	trainings, err := a.historyService.Trainings(ctx, limit)
	if err != nil {
		return err
	}
	generations, err := a.historyService.Generations(ctx, limit)
	if err != nil {
		return err
	}

	a.println("Trainings")
	if len(trainings) == 0 {
		a.println("  (none)")
	} else {
		rows := make([][]string, 0, len(trainings))
		for _, t := range trainings {
			rows = append(rows, []string{
				formatWhen(t.CreatedAt), t.ModelID, strconv.Itoa(t.FileCount), string(t.Step), truncate(t.Error, 40),
			})
		}
		a.println(renderTable(
			[]string{"When", "Model", "Files", "Step", "Error"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
		))
	}

	a.println("Generations")
	if len(generations) == 0 {
		a.println("  (none)")
	} else {
		rows := make([][]string, 0, len(generations))
		for _, g := range generations {
			model := g.ModelID
			if g.OwnedModel {
				model += " (own)"
			}
			rows = append(rows, []string{formatWhen(g.CreatedAt), model, truncate(g.Prompt, 40), g.OutputPath})
		}
		a.println(renderTable([]string{"When", "Model", "Prompt", "File"}, rows, nil))
	}
	return nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(historyTimeLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
