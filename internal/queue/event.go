// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried by RoomEvent.Type.
const (
	RoomCreated = "room.created"
	RoomDeleted = "room.deleted"
)

// RoomEvent is published when a room is created or soft-deleted. It
// contains enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type RoomEvent struct {
	Type       string `json:"type"`
	RoomID     uint64 `json:"room_id"`
	Link       string `json:"link"`
	Title      string `json:"title,omitempty"`
	Language   string `json:"language,omitempty"`
	OwnerID    uint64 `json:"owner_id"`
	ActorID    uint64 `json:"actor_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
