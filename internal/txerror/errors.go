// Package txerror defines the typed errors shared by the categorization
// pipeline and the duplicate cleanup engine.
package txerror

import "fmt"

// InvalidInputError indicates a categorization request is missing a required
// field. It is surfaced to the caller immediately, without any fallback.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

// EmbeddingUnavailableError indicates the embedding provider call failed,
// timed out, or returned malformed output. The pipeline does not retry; it
// degrades to the rule stage.
type EmbeddingUnavailableError struct {
	Provider string
	Err      error
}

func (e *EmbeddingUnavailableError) Error() string {
	return fmt.Sprintf("embedding unavailable from %s: %v", e.Provider, e.Err)
}

func (e *EmbeddingUnavailableError) Unwrap() error {
	return e.Err
}

// StoreUnavailableError indicates a failure from the persistence layer
// (neighbor search, rule fetch, category lookup, delete). It propagates to
// the caller; only the best-effort embedding persist step swallows it.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
