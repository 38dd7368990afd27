// Package common defines shared sentinel errors used across the
// persistence and HTTP layers of quotewall. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Secret provider errors (secret store unreachable or secret missing).
	ErrSecretUnavailable = errors.New("secret unavailable")

	// Connection provider errors.
	ErrConnection    = errors.New("connection error")
	ErrPoolExhausted = errors.New("pool exhausted")

	// Startup-time schema creation failure.
	ErrSchemaInit = errors.New("schema init error")

	// Classification for any other database-driver failure during an
	// operation. The raw driver error stays in the wrapped message and is
	// logged, never shown to the end user.
	ErrStorage = errors.New("storage error")
)
