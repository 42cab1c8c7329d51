// Package service implements the business operations on rooms and
// participants. Services load state through small store interfaces,
// ask the auth package for a decision, and return sentinel errors that
// handlers translate into HTTP or websocket outcomes.
package service

import "errors"

// ErrNotFound covers absent rooms, soft-deleted rooms and missing
// participant records. The three cases are deliberately collapsed so
// responses never reveal whether a hidden room exists.
var ErrNotFound = errors.New("not found")

// ErrForbidden means the actor is authenticated but lacks the
// ownership or role standing the operation requires.
var ErrForbidden = errors.New("forbidden")

// ErrLinkExhausted is returned when room creation runs out of link
// candidates: every generated link collided and the retry budget is
// spent. Handlers map it to 409 Conflict.
var ErrLinkExhausted = errors.New("link space exhausted")

// ErrInvalidRole is returned when a role change names a role outside
// the closed editor/viewer enum.
var ErrInvalidRole = errors.New("invalid role")
