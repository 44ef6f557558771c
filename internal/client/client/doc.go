// Package client contains the client-side transport to the accountd server.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface):
//     Register, Login, ListUsers, DeleteUser and Health.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that passes the
//     session token as the "token" query parameter and maps response
//     statuses to sentinel errors.
//
// # Error Handling
//
// Server answers are exposed as sentinel errors that callers can match with
// errors.Is: ErrAlreadyExists (400), ErrUnauthorized (401), ErrNotFound
// (404), ErrInvalidRequest (422) and ErrUnavailable (transport failures and
// 5xx). The server's "detail" message is appended to the error text.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation in addition to the configured
// request timeout.
package client
