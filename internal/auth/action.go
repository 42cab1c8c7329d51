// Package auth implements the room authorization policy as a pure
// decision function over (actor, room, participant record, action).
// It performs no I/O; callers load the room and the actor's participant
// row first and translate the returned sentinel errors into HTTP or
// websocket outcomes.
package auth

// Action enumerates every operation the policy can decide on. The set
// is closed: Authorize switches exhaustively over it and denies any
// value it does not recognize.
type Action int

const (
	// ActionViewContent reads a room's content and metadata.
	ActionViewContent Action = iota
	// ActionDownload exports a room's content as a file.
	ActionDownload
	// ActionListParticipants lists the room membership.
	ActionListParticipants
	// ActionDeleteRoom soft-deletes the room.
	ActionDeleteRoom
	// ActionToggleEditMode switches the room between edit and view mode.
	ActionToggleEditMode
	// ActionChangeRole promotes or demotes another participant.
	ActionChangeRole
)

// String returns the action name used in logs and error messages.
func (a Action) String() string {
	switch a {
	case ActionViewContent:
		return "view_content"
	case ActionDownload:
		return "download"
	case ActionListParticipants:
		return "list_participants"
	case ActionDeleteRoom:
		return "delete_room"
	case ActionToggleEditMode:
		return "toggle_edit_mode"
	case ActionChangeRole:
		return "change_role"
	}
	return "unknown"
}
