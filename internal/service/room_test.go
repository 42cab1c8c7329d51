package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/codeshare/internal/model"
	"github.com/iliyamo/codeshare/internal/service"
	"github.com/iliyamo/codeshare/internal/utils"
)

func newRoomService(f *fakeStores) *service.RoomService {
	return service.NewRoomService(f, f, service.NewLinkResolver(f), 6, nil)
}

func TestCreateRoomEnrollsOwnerAsEditor(t *testing.T) {
	f := newFakeStores()
	svc := newRoomService(f)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1)
	require.NoError(t, err)

	assert.Len(t, room.Link, 6)
	assert.True(t, strings.HasPrefix(room.Link, utils.LinkPrefix))
	assert.Equal(t, uint64(1), room.OwnerID)
	assert.Equal(t, "plaintext", room.Language)
	assert.False(t, room.IsDeleted)

	// Room creation is atomic: immediately afterwards the owner is the
	// sole participant and holds the editor role.
	list, count, err := f.ListWithUsers(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(1), list[0].UserID)
	assert.Equal(t, model.RoleEditor, list[0].Role)
}

func TestCreateRoomRetriesWhenInsertLosesLinkRace(t *testing.T) {
	f := newFakeStores()
	f.failLinkTaken = 1 // first insert hits the unique constraint
	svc := newRoomService(f)

	room, err := svc.Create(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, f.createCalls, "one lost race, one successful insert")
	assert.NotEmpty(t, room.Link)
}

func TestCreateRoomGivesUpAfterRepeatedLinkRaces(t *testing.T) {
	f := newFakeStores()
	f.failLinkTaken = 1 << 30
	svc := newRoomService(f)

	_, err := svc.Create(context.Background(), 7)
	require.ErrorIs(t, err, service.ErrLinkExhausted)
}

func TestGetRequiresOwnershipOrMembership(t *testing.T) {
	f := newFakeStores()
	svc := newRoomService(f)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1)
	require.NoError(t, err)

	// Owner reads fine.
	got, err := svc.Get(ctx, 1, room.Link)
	require.NoError(t, err)
	assert.Equal(t, room.Link, got.Link)

	// A stranger is forbidden, not not-found: the link resolved but
	// the actor holds no membership.
	_, err = svc.Get(ctx, 2, room.Link)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// A viewer participant reads fine; the role is irrelevant for reads.
	require.NoError(t, f.Create(ctx, room.ID, 2, model.RoleViewer))
	_, err = svc.Get(ctx, 2, room.Link)
	assert.NoError(t, err)
}

func TestGetUnknownLinkIsNotFound(t *testing.T) {
	svc := newRoomService(newFakeStores())
	_, err := svc.Get(context.Background(), 1, "RONQQQ")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteRequiresOwnerWithEditorStanding(t *testing.T) {
	f := newFakeStores()
	svc := newRoomService(f)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.Create(ctx, room.ID, 2, model.RoleEditor))

	// An editor who is not the owner cannot delete.
	err = svc.Delete(ctx, 2, room.Link)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// A demoted owner cannot delete either: ownership alone is not
	// enough without editor standing.
	_, err = f.UpdateRole(ctx, room.ID, 1, model.RoleViewer)
	require.NoError(t, err)
	err = svc.Delete(ctx, 1, room.Link)
	assert.ErrorIs(t, err, service.ErrForbidden)

	// Restored to editor, the owner deletes.
	_, err = f.UpdateRole(ctx, room.ID, 1, model.RoleEditor)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 1, room.Link))
}

func TestDeletedRoomIsGoneForEveryOperation(t *testing.T) {
	f := newFakeStores()
	svc := newRoomService(f)
	partSvc := service.NewParticipantService(f, f)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, f.Create(ctx, room.ID, 2, model.RoleViewer))
	require.NoError(t, svc.Delete(ctx, 1, room.Link))

	// Owner and participant alike see NotFound, indistinguishable from
	// a link that never existed.
	_, err = svc.Get(ctx, 1, room.Link)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.Download(ctx, 2, room.Link)
	assert.ErrorIs(t, err, service.ErrNotFound)
	err = svc.SetEditable(ctx, 1, room.Link, true)
	assert.ErrorIs(t, err, service.ErrNotFound)
	err = svc.Delete(ctx, 1, room.Link)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, _, err = partSvc.List(ctx, 1, room.Link)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = partSvc.ChangeRole(ctx, 1, room.Link, 2, "editor")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSetEditableTogglesMode(t *testing.T) {
	f := newFakeStores()
	svc := newRoomService(f)
	ctx := context.Background()

	room, err := svc.Create(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, svc.SetEditable(ctx, 1, room.Link, true))

	got, err := svc.Get(ctx, 1, room.Link)
	require.NoError(t, err)
	assert.True(t, got.IsEditable)

	require.NoError(t, svc.SetEditable(ctx, 1, room.Link, false))
	got, err = svc.Get(ctx, 1, room.Link)
	require.NoError(t, err)
	assert.False(t, got.IsEditable)
}

// TestCollaborationFlow walks the full scenario: A creates a room, B
// joins over the realtime path, role changes and mode toggles follow
// the policy, and deletion hides the room from both.
func TestCollaborationFlow(t *testing.T) {
	f := newFakeStores()
	f.names[1] = "alice"
	f.names[2] = "bob"
	roomSvc := newRoomService(f)
	partSvc := service.NewParticipantService(f, f)
	admission := service.NewAdmissionService(f, f)
	ctx := context.Background()

	room, err := roomSvc.Create(ctx, 1)
	require.NoError(t, err)

	// B joins via admission and is auto-enrolled as viewer.
	_, err = admission.Admit(ctx, 2, room.Link)
	require.NoError(t, err)
	p, err := f.Get(ctx, room.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.RoleViewer, p.Role)

	// A viewer cannot change roles.
	_, err = partSvc.ChangeRole(ctx, 2, room.Link, 2, "editor")
	assert.ErrorIs(t, err, service.ErrForbidden)

	// A promotes B to editor.
	info, err := partSvc.ChangeRole(ctx, 1, room.Link, 2, "editor")
	require.NoError(t, err)
	assert.Equal(t, model.RoleEditor, info.Role)
	assert.Equal(t, "bob", info.Name)

	// Editor standing does not grant mode toggling to a non-owner.
	err = roomSvc.SetEditable(ctx, 2, room.Link, true)
	assert.ErrorIs(t, err, service.ErrForbidden)
	require.NoError(t, roomSvc.SetEditable(ctx, 1, room.Link, true))

	// A deletes; the link stops resolving for everyone.
	require.NoError(t, roomSvc.Delete(ctx, 1, room.Link))
	_, err = roomSvc.Get(ctx, 1, room.Link)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = admission.Admit(ctx, 2, room.Link)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
