package service

import (
	"context"
	"errors"

	"github.com/iliyamo/codeshare/internal/model"
	"github.com/iliyamo/codeshare/internal/repository"
)

// AdmissionService validates an authenticated realtime join and
// enrolls first-time joiners. Admission is deliberately more
// permissive than REST reads: possession of the link plus a valid
// credential is enough to enter as a viewer. REST content reads keep
// the stricter owner-or-participant gate; the asymmetry is intended
// and must not be tightened here.
type AdmissionService struct {
	rooms        RoomStore
	participants ParticipantStore
}

// NewAdmissionService wires an admission service.
func NewAdmissionService(rooms RoomStore, participants ParticipantStore) *AdmissionService {
	if rooms == nil || participants == nil {
		panic("nil dependency passed to NewAdmissionService")
	}
	return &AdmissionService{rooms: rooms, participants: participants}
}

// Admit resolves the room behind link and ensures userID holds a
// participant record, creating a viewer one on first join. Soft-deleted
// and unknown links both fail with ErrNotFound. Two concurrent first
// joins race at the (user_id, room_id) unique constraint; the loser's
// insert reports ErrAlreadyParticipant and is treated as success, so a
// user is never enrolled twice.
func (s *AdmissionService) Admit(ctx context.Context, userID uint64, link string) (model.Room, error) {
	room, err := s.rooms.GetByLink(ctx, link)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Room{}, ErrNotFound
		}
		return model.Room{}, err
	}
	if room.IsDeleted {
		return model.Room{}, ErrNotFound
	}

	_, err = s.participants.Get(ctx, room.ID, userID)
	if err == nil {
		return room, nil // already enrolled, nothing to create
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Room{}, err
	}

	if err := s.participants.Create(ctx, room.ID, userID, model.RoleViewer); err != nil {
		if errors.Is(err, repository.ErrAlreadyParticipant) {
			return room, nil
		}
		return model.Room{}, err
	}
	return room, nil
}
