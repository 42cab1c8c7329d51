package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/codeshare/internal/auth"
	"github.com/iliyamo/codeshare/internal/model"
)

const ownerID uint64 = 1

func liveRoom() model.Room {
	return model.Room{ID: 10, Link: "RONABC", OwnerID: ownerID}
}

func part(userID uint64, role model.Role) *model.Participant {
	return &model.Participant{ID: 99, UserID: userID, RoomID: 10, Role: role}
}

func TestAuthorize(t *testing.T) {
	readActions := []auth.Action{auth.ActionViewContent, auth.ActionDownload, auth.ActionListParticipants}
	destructive := []auth.Action{auth.ActionDeleteRoom, auth.ActionToggleEditMode}

	tests := []struct {
		name    string
		actorID uint64
		actor   *model.Participant
		actions []auth.Action
		want    error
	}{
		{"owner with editor standing reads", ownerID, part(ownerID, model.RoleEditor), readActions, nil},
		{"viewer participant reads", 2, part(2, model.RoleViewer), readActions, nil},
		{"editor participant reads", 2, part(2, model.RoleEditor), readActions, nil},
		{"stranger cannot read", 2, nil, readActions, auth.ErrForbidden},
		{"owner with editor standing destroys", ownerID, part(ownerID, model.RoleEditor), destructive, nil},
		{"demoted owner cannot destroy", ownerID, part(ownerID, model.RoleViewer), destructive, auth.ErrForbidden},
		{"non-owner editor cannot destroy", 2, part(2, model.RoleEditor), destructive, auth.ErrForbidden},
		{"stranger cannot destroy", 2, nil, destructive, auth.ErrForbidden},
		{"owner changes roles", ownerID, part(ownerID, model.RoleEditor), []auth.Action{auth.ActionChangeRole}, nil},
		{"demoted owner still changes roles", ownerID, part(ownerID, model.RoleViewer), []auth.Action{auth.ActionChangeRole}, nil},
		{"non-owner editor changes roles", 2, part(2, model.RoleEditor), []auth.Action{auth.ActionChangeRole}, nil},
		{"viewer cannot change roles", 2, part(2, model.RoleViewer), []auth.Action{auth.ActionChangeRole}, auth.ErrForbidden},
		{"stranger cannot change roles", 2, nil, []auth.Action{auth.ActionChangeRole}, auth.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, act := range tt.actions {
				err := auth.Authorize(tt.actorID, liveRoom(), tt.actor, act)
				if tt.want == nil {
					assert.NoError(t, err, "action %s", act)
				} else {
					assert.ErrorIs(t, err, tt.want, "action %s", act)
				}
			}
		})
	}
}

func TestAuthorizeDeletedRoomWinsOverEverything(t *testing.T) {
	room := liveRoom()
	room.IsDeleted = true

	all := []auth.Action{
		auth.ActionViewContent, auth.ActionDownload, auth.ActionListParticipants,
		auth.ActionDeleteRoom, auth.ActionToggleEditMode, auth.ActionChangeRole,
	}
	// Even the owner with full standing sees not-found, never forbidden.
	for _, act := range all {
		err := auth.Authorize(ownerID, room, part(ownerID, model.RoleEditor), act)
		assert.ErrorIs(t, err, auth.ErrNotFound, "action %s", act)
	}
}

func TestAuthorizeRoleChangeRequiresExistingTarget(t *testing.T) {
	room := liveRoom()
	owner := part(ownerID, model.RoleEditor)

	err := auth.AuthorizeRoleChange(ownerID, room, owner, nil)
	assert.ErrorIs(t, err, auth.ErrNotFound)

	err = auth.AuthorizeRoleChange(ownerID, room, owner, part(2, model.RoleViewer))
	assert.NoError(t, err)

	// Actor standing is checked before the target: a viewer actor is
	// forbidden even when the target is missing.
	err = auth.AuthorizeRoleChange(3, room, part(3, model.RoleViewer), nil)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}
