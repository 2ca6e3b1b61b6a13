// Package services contains the application services of the FotoGen client.
//
// AuthService wraps the identity provider and owns the post-sign-in redirect.
// ModelService decides which model generation targets. GenerationService
// renders prompts and saves the results. TrainingService turns a picked set of
// images into a training job. HistoryService reads and wipes local history.
//
// Every service is an interface with an unexported implementation and a
// constructor; the CLI only depends on the interfaces.
package services
