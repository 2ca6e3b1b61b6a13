// Package cli provides the interactive FotoGen command-line client.
//
// It wires configuration, local storage, the identity provider, the backend
// API client and the services into a REPL. Every command may change the
// current route; afterwards the router settles navigation and the page for
// the resulting route is mounted:
//
//   - /login: sign-in hint, with the saved redirect intent if any
//   - /home and /home/<user>/<model>: model resolution
//   - /training: the current image selection
//
// Failures are shown as notices carrying the product copy ("Model Not
// Found", "Images Too Large", "Training Limit Reached", ...). Only one CLI
// session may use a state directory at a time.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, Settle, and runREPL for details.
package cli
