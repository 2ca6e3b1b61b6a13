// Package trainings persists the local history of training attempts.
//
// Each attempt is keyed by its generated model id and moves through the
// training steps (selecting, uploading, training, accepted). A failed attempt
// keeps the step it failed at together with the error text.
//
//	repo := trainings.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, rec)
//	_ = repo.UpdateStep(ctx, rec.ModelID, models.StepTraining)
//	_ = repo.Finish(ctx, rec.ModelID, imageURL, backendID, "")
//	list, _ := repo.List(ctx, 20)
package trainings
