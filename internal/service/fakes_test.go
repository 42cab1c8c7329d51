package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/codeshare/internal/model"
	"github.com/iliyamo/codeshare/internal/repository"
)

// fakeStores emulates the persistence layer in memory, including the
// transactional room+owner insert and the unique constraints the real
// store enforces.
type fakeStores struct {
	rooms  map[string]*model.Room // keyed by link, soft-deleted included
	parts  map[string]model.Participant
	names  map[uint64]string // user id -> display name
	nextID uint64

	createCalls     int // CreateWithOwner invocations
	enrollCalls     int // participant Create invocations
	failLinkTaken   int // fail this many room creates with ErrLinkTaken
	failAlreadyPart int // fail this many enrolls with ErrAlreadyParticipant
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		rooms: map[string]*model.Room{},
		parts: map[string]model.Participant{},
		names: map[uint64]string{},
	}
}

func partKey(roomID, userID uint64) string { return fmt.Sprintf("%d/%d", roomID, userID) }

func (f *fakeStores) roomByID(id uint64) *model.Room {
	for _, r := range f.rooms {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// ----- RoomStore -----

func (f *fakeStores) CreateWithOwner(_ context.Context, room *model.Room) error {
	f.createCalls++
	if f.failLinkTaken > 0 {
		f.failLinkTaken--
		return repository.ErrLinkTaken
	}
	if _, ok := f.rooms[room.Link]; ok {
		return repository.ErrLinkTaken
	}
	f.nextID++
	room.ID = f.nextID
	room.CreatedAt = time.Now().UTC()
	room.UpdatedAt = room.CreatedAt
	stored := *room
	f.rooms[room.Link] = &stored
	// Same transaction: the owner is enrolled as editor or nothing is.
	f.nextID++
	f.parts[partKey(room.ID, room.OwnerID)] = model.Participant{
		ID: f.nextID, UserID: room.OwnerID, RoomID: room.ID,
		Role: model.RoleEditor, JoinedAt: room.CreatedAt,
	}
	return nil
}

func (f *fakeStores) GetByLink(_ context.Context, link string) (model.Room, error) {
	r, ok := f.rooms[link]
	if !ok {
		return model.Room{}, repository.ErrNotFound
	}
	return *r, nil
}

func (f *fakeStores) LinkExists(_ context.Context, link string) (bool, error) {
	_, ok := f.rooms[link]
	return ok, nil
}

func (f *fakeStores) SoftDelete(_ context.Context, roomID uint64) error {
	r := f.roomByID(roomID)
	if r == nil || r.IsDeleted {
		return repository.ErrNotFound
	}
	r.IsDeleted = true
	return nil
}

func (f *fakeStores) SetEditable(_ context.Context, roomID uint64, editable bool) error {
	r := f.roomByID(roomID)
	if r == nil || r.IsDeleted {
		return repository.ErrNotFound
	}
	r.IsEditable = editable
	return nil
}

// ----- ParticipantStore -----

func (f *fakeStores) Get(_ context.Context, roomID, userID uint64) (model.Participant, error) {
	p, ok := f.parts[partKey(roomID, userID)]
	if !ok {
		return model.Participant{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeStores) Create(_ context.Context, roomID, userID uint64, role model.Role) error {
	f.enrollCalls++
	if f.failAlreadyPart > 0 {
		f.failAlreadyPart--
		return repository.ErrAlreadyParticipant
	}
	key := partKey(roomID, userID)
	if _, ok := f.parts[key]; ok {
		return repository.ErrAlreadyParticipant
	}
	f.nextID++
	f.parts[key] = model.Participant{
		ID: f.nextID, UserID: userID, RoomID: roomID,
		Role: role, JoinedAt: time.Now().UTC(),
	}
	return nil
}

func (f *fakeStores) ListWithUsers(_ context.Context, roomID uint64) ([]model.ParticipantInfo, int, error) {
	out := []model.ParticipantInfo{}
	for _, p := range f.parts {
		if p.RoomID != roomID {
			continue
		}
		out = append(out, model.ParticipantInfo{
			ID: p.ID, UserID: p.UserID, Name: f.names[p.UserID],
			Role: p.Role, JoinedAt: p.JoinedAt,
		})
	}
	return out, len(out), nil
}

func (f *fakeStores) UpdateRole(_ context.Context, roomID, userID uint64, role model.Role) (model.ParticipantInfo, error) {
	key := partKey(roomID, userID)
	p, ok := f.parts[key]
	if !ok {
		return model.ParticipantInfo{}, repository.ErrNotFound
	}
	p.Role = role
	f.parts[key] = p
	return model.ParticipantInfo{
		ID: p.ID, UserID: p.UserID, Name: f.names[p.UserID],
		Role: p.Role, JoinedAt: p.JoinedAt,
	}, nil
}
