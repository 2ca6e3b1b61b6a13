// Package session holds the short-lived per-session state of the client:
// the post-sign-in redirect intent and the cached shared model reference.
//
// State lives behind the KV interface so the same Store runs over the SQLite
// session_state table in the CLI and over MemoryKV in tests.
package session
