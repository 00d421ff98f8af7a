// Package oracle adapts external transaction-confirmation services.
//
// An oracle is untrusted and unreliable: callers bound every call with a
// timeout and treat ErrUnavailable as "try again later".
package oracle

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the oracle cannot answer right now:
// not configured, timed out, failing, or short-circuited.
var ErrUnavailable = errors.New("verification oracle unavailable")

// Verifier submits and confirms on-chain transfers.
type Verifier interface {
	// Submit broadcasts a signed transaction blob. The returned reference
	// may be empty when the service accepted the blob without naming it.
	Submit(ctx context.Context, blob string) (string, error)

	// CheckConfirmed reports whether the referenced transaction is final.
	CheckConfirmed(ctx context.Context, ref string) (bool, error)
}

// Disabled is a Verifier for deployments without oracle credentials.
type Disabled struct{}

func (Disabled) Submit(ctx context.Context, blob string) (string, error) {
	return "", ErrUnavailable
}

func (Disabled) CheckConfirmed(ctx context.Context, ref string) (bool, error) {
	return false, ErrUnavailable
}
