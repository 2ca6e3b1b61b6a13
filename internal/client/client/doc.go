// Package client contains the client-side building blocks that talk to the
// FotoGen backend and bootstrap local state.
//
// # Overview
//
// The package provides:
//  1. The Client interface: model availability check, photo generation,
//     training archive upload and training start.
//  2. HTTPClient, the REST implementation. Every request carries an
//     X-Request-ID and, when the TokenSource yields one, a bearer token.
//     A token failure degrades the request to anonymous instead of failing it.
//  3. InitDatabase and RunMigrations, which open the local SQLite database
//     and apply the embedded goose migrations.
//
// # Error Handling
//
// Backend failures are translated at this boundary. Callers match them with
// errors.Is (ErrModelCheckFailed, ErrGenerationFailed, ErrUploadFailed,
// ErrTrainingFailed, ErrUnavailable, ErrQuotaExceeded) or errors.As for
// *QuotaError, which carries the limit the backend reported.
//
// The backend's errorCode field arrives either as a string or as a number;
// it is normalised to ErrorCode before any comparison.
package client
