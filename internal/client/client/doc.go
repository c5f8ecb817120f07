// Package client contains client-side building blocks for talking to the
// memoria backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the three backend services the client
//     consumes: AuthClient (sign-up, password sign-in, sign-out, current user,
//     session change events), RowStore (select/insert over the "memorials"
//     table) and BlobStore (immutable uploads plus public URLs).
//  2. A concrete HTTP implementation (see RESTClient) for a Supabase-compatible
//     backend. It keeps the auth session, persists it through a
//     SessionPersister, refreshes an expired access token once and replays the
//     request, and maps HTTP failures to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations),
//     wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrConflict.
// Errors returned by the backend are *APIError values whose Error() is the
// backend's human-readable message.
//
// Concurrency & Contexts
//
// RESTClient is safe for concurrent use. All operations accept context.Context.
// RESTClient itself imposes no deadline; the http.Client it is given may. The
// one built by NewHTTPClient bounds dial and TLS handshake to 10s each and
// the whole request to the configured timeout (15s by default in config).
//
// See Also
//
//   - Interfaces: AuthClient, RowStore, BlobStore, SessionPersister
//   - HTTP impl:  RESTClient
//   - DB helpers: InitDatabase, RunMigrations
package client
