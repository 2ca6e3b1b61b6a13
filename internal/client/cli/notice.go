package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fotogen/internal/client/client"
	"github.com/dmitrijs2005/fotogen/internal/client/services"
	"github.com/dmitrijs2005/fotogen/internal/filex"
)

// Notice is a titled message shown to the user, the terminal stand-in for a
// toast or a modal dialog.
type Notice struct {
	Title       string
	Description string
	// Destructive marks failures.
	Destructive bool
}

func (n Notice) String() string {
	mark := "*"
	if n.Destructive {
		mark = "!"
	}
	if n.Description == "" {
		return fmt.Sprintf("[%s] %s", mark, n.Title)
	}
	return fmt.Sprintf("[%s] %s: %s", mark, n.Title, n.Description)
}

func (a *App) notice(n Notice) {
	a.println(n.String())
}

func noticeModelNotFound() Notice {
	return Notice{Title: "Model Not Found", Description: "The requested model is not available or accessible.", Destructive: true}
}

func noticeModelCheckFailed() Notice {
	return Notice{Title: "Error", Description: "Failed to check model availability", Destructive: true}
}

func noticeImagesTooLarge(e *services.SelectionTooLargeError) Notice {
	return Notice{
		Title: "Images Too Large",
		Description: fmt.Sprintf("The total size of selected images is %sMB, which exceeds the %sMB limit. Please select smaller images or fewer images.",
			e.MBString(), formatLimitMB(e.LimitMB())),
		Destructive: true,
	}
}

// formatLimitMB drops the fraction for whole megabytes.
func formatLimitMB(mb float64) string {
	s := fmt.Sprintf("%.2f", mb)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func noticeImagesSelected(n int) Notice {
	return Notice{Title: "Images Selected", Description: fmt.Sprintf("%d images selected and ready for training.", n)}
}

func noticeNoImagesSelected() Notice {
	return Notice{Title: "No Images Selected", Description: "Please select images before starting training.", Destructive: true}
}

func noticeNotImage(err error) Notice {
	return Notice{Title: "Invalid File", Description: fmt.Sprintf("Only image files can be selected (%v).", err), Destructive: true}
}

func noticeUploadSuccessful(n int) Notice {
	return Notice{Title: "Upload Successful", Description: fmt.Sprintf("%d images uploaded successfully.", n)}
}

func noticeTrainingStarted() Notice {
	return Notice{Title: "Training Started", Description: "Your model training has begun successfully. You will receive an email notification when the training is complete (approximately 20 minutes)."}
}

func noticeTrainingFailed() Notice {
	return Notice{Title: "Training Failed", Description: "Failed to start model training. Please try again.", Destructive: true}
}

func noticeGenerated(path string) Notice {
	return Notice{Title: "Success", Description: "Image generated successfully! Saved to " + path}
}

func noticeGenerationFailed() Notice {
	return Notice{Title: "Generation Failed", Description: "Failed to generate image. Please try again.", Destructive: true}
}

func noticeLimit(q *client.QuotaError) Notice {
	if q.Kind == client.QuotaTraining {
		return Notice{
			Title:       "Training Limit Reached",
			Description: fmt.Sprintf("You've reached your training model limit of %d images. Please try again later.", q.Limit),
			Destructive: true,
		}
	}
	return Notice{
		Title:       "Generation Limit Reached",
		Description: fmt.Sprintf("You've reached your photo generation limit of %d images. Please try again later.", q.Limit),
		Destructive: true,
	}
}

// trainingNotice maps a failed Start to what the user sees.
func trainingNotice(err error) Notice {
	var q *client.QuotaError
	switch {
	case errors.As(err, &q):
		return noticeLimit(q)
	case errors.Is(err, services.ErrNoImagesSelected):
		return noticeNoImagesSelected()
	case errors.Is(err, services.ErrTrainingInProgress):
		return Notice{Title: "Training In Progress", Description: "Please wait for the current training request to finish.", Destructive: true}
	default:
		return noticeTrainingFailed()
	}
}

// selectionNotice maps a failed Select to what the user sees.
func selectionNotice(err error) Notice {
	var tooLarge *services.SelectionTooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return noticeImagesTooLarge(tooLarge)
	case errors.Is(err, services.ErrNoImagesSelected):
		return noticeNoImagesSelected()
	case errors.Is(err, filex.ErrNotImage):
		return noticeNotImage(err)
	case errors.Is(err, services.ErrTrainingInProgress):
		return Notice{Title: "Training In Progress", Description: "The selection cannot change while training starts.", Destructive: true}
	default:
		return Notice{Title: "Error", Description: err.Error(), Destructive: true}
	}
}

// generationNotice maps a failed Generate to what the user sees.
func generationNotice(err error) Notice {
	var q *client.QuotaError
	switch {
	case errors.As(err, &q):
		return noticeLimit(q)
	case errors.Is(err, services.ErrEmptyPrompt):
		return Notice{Title: "Empty Prompt", Description: "Please describe the image to generate.", Destructive: true}
	case errors.Is(err, services.ErrNoModel):
		return Notice{Title: "No Model", Description: "Train a model first, or open a shared model link.", Destructive: true}
	default:
		return noticeGenerationFailed()
	}
}
