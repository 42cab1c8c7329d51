package auth

import (
	"errors"

	"github.com/iliyamo/codeshare/internal/model"
)

// Sentinel denial reasons. ErrNotFound deliberately makes a deleted
// room indistinguishable from one that never existed so that link
// probing cannot reveal hidden rooms.
var (
	ErrNotFound  = errors.New("room not found")
	ErrForbidden = errors.New("forbidden")
)

// Authorize decides whether actorID may perform act on room. actor is
// the actor's participant record in that room, or nil when the actor
// holds none. A nil return means the action is allowed.
//
// Rules, in precedence order:
//  1. A soft-deleted room is not found, for every action.
//  2. Read actions (view, download, list participants) require ownership
//     or any participant record; the role is irrelevant.
//  3. Destructive actions (delete, mode toggle) require ownership AND
//     editor standing on the owner's own participant record. An owner
//     demoted to viewer loses these actions.
//  4. Role changes require ownership or an editor participant record.
//     Whether the target is a participant is checked separately, see
//     AuthorizeRoleChange.
//  5. Anything else is forbidden.
func Authorize(actorID uint64, room model.Room, actor *model.Participant, act Action) error {
	if room.IsDeleted {
		return ErrNotFound
	}
	isOwner := room.OwnerID == actorID
	isParticipant := actor != nil
	isEditor := actor != nil && actor.Role == model.RoleEditor

	switch act {
	case ActionViewContent, ActionDownload, ActionListParticipants:
		if isOwner || isParticipant {
			return nil
		}
	case ActionDeleteRoom, ActionToggleEditMode:
		// Ownership alone is insufficient: the owner must also hold
		// editor standing, which can be revoked through a role change.
		if isOwner && isEditor {
			return nil
		}
	case ActionChangeRole:
		if isOwner || isEditor {
			return nil
		}
	}
	return ErrForbidden
}

// AuthorizeRoleChange applies rule 4 including the target requirement:
// role changes never implicitly create a participant, so a nil target
// record denies with ErrNotFound.
func AuthorizeRoleChange(actorID uint64, room model.Room, actor, target *model.Participant) error {
	if err := Authorize(actorID, room, actor, ActionChangeRole); err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	return nil
}
