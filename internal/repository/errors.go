// Package repository defines error types that are reused across the
// store's operations.  These sentinel values allow higher layers such
// as handlers and the terminal client to distinguish between failure
// scenarios.
//
// The store is deliberately asymmetric about missing ids: toggles
// (favorite, block, rename) fail with ErrNotFound, while status updates
// on properties and bookings silently do nothing.
package repository

import "errors"

// ErrNotFound is returned when a referenced user or property id is
// absent.  Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrBlocked is returned by login for an account an admin has blocked.
var ErrBlocked = errors.New("your account has been blocked by the administrator")

// BlockedMessage is what a blocked user is shown when signing in fails.
const BlockedMessage = "Your account has been blocked by the administrator."

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as deciding a booking for another
// owner's property.  Handlers should translate this into an HTTP 403.
var ErrForbidden = errors.New("forbidden")
