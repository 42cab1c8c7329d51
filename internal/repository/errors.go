// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services to distinguish between different failure scenarios. For
// example, ErrLinkTaken signals that a room insert hit the unique
// constraint on the link column and the caller should retry with a
// fresh link, while ErrAlreadyParticipant means an auto-enrollment
// raced with another connection for the same (user, room) pair.
package repository

import "errors"

// ErrNotFound is returned when a point lookup matches no row. The
// service layer also maps soft-deleted rooms onto this value so that
// hidden and absent rooms are indistinguishable to callers.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert collides with the
// unique constraint on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrLinkTaken is returned when a room insert collides with the unique
// constraint on rooms.link. The constraint, not the pre-insert
// existence check, is the source of truth for link uniqueness; callers
// retry with a newly generated link.
var ErrLinkTaken = errors.New("link already taken")

// ErrAlreadyParticipant is returned when a participant insert collides
// with the unique (user_id, room_id) constraint. Admission treats this
// as success: the user is enrolled either way.
var ErrAlreadyParticipant = errors.New("already a participant")
