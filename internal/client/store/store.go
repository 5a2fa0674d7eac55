// Package store implements the durable credential slot: a single, fixed-name
// location holding at most one raw bearer token that survives process restarts.
//
// The session manager is the only writer. The transport reads the slot before
// every outbound request.
package store

import (
	"context"
	"errors"
)

// SlotName is the fixed key of the credential slot.
const SlotName = "token"

// ErrEmptyToken is returned by Set when asked to store an empty credential.
var ErrEmptyToken = errors.New("empty token")

// Store is the durable credential slot.
type Store interface {
	// Get returns the stored token. ok is false when the slot is empty.
	Get(ctx context.Context) (token string, ok bool, err error)
	// Set overwrites the slot with token.
	Set(ctx context.Context, token string) error
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context) error
}
