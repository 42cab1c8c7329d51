package model

import "time"

// Role is the closed set of participant roles inside a room. It is
// stored as an enum column in the database; any value outside the two
// constants below is rejected at parse time rather than defaulting to
// a permissive role.
type Role string

const (
	// RoleEditor may mutate room content and, combined with
	// ownership, room mode and lifecycle.
	RoleEditor Role = "editor"
	// RoleViewer has read-only access to room content.
	RoleViewer Role = "viewer"
)

// ParseRole validates a raw role string against the closed enum.
// The boolean is false for any unknown value.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEditor:
		return RoleEditor, true
	case RoleViewer:
		return RoleViewer, true
	}
	return "", false
}

// Participant models a row in the `participants` table. Membership is
// unique per (user_id, room_id); a user holds at most one participant
// record per room. Participants are never deleted, only role-mutated.
//
// Fields:
//  ID       – primary key identifier.
//  UserID   – the member user.
//  RoomID   – the room the user belongs to.
//  Role     – editor or viewer.
//  JoinedAt – when the membership was created.
type Participant struct {
	ID       uint64    // participants.id
	UserID   uint64    // participants.user_id
	RoomID   uint64    // participants.room_id
	Role     Role      // participants.role
	JoinedAt time.Time // participants.joined_at
}

// ParticipantInfo joins a participant row with the owning user's
// display fields. It is the shape returned by the participant listing
// and role-change operations for confirmation messaging.
type ParticipantInfo struct {
	ID       uint64    `json:"id"`
	UserID   uint64    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}
