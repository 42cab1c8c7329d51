package service

import (
	"context"
	"errors"

	"github.com/iliyamo/codeshare/internal/auth"
	"github.com/iliyamo/codeshare/internal/model"
	"github.com/iliyamo/codeshare/internal/repository"
)

// ParticipantService manages room membership: listing and role
// transitions. Enrollment itself happens either at room creation
// (owner) or through websocket admission (viewer auto-enrollment);
// there is no explicit "add participant" operation.
type ParticipantService struct {
	rooms        RoomStore
	participants ParticipantStore
}

// NewParticipantService wires a participant service.
func NewParticipantService(rooms RoomStore, participants ParticipantStore) *ParticipantService {
	if rooms == nil || participants == nil {
		panic("nil dependency passed to NewParticipantService")
	}
	return &ParticipantService{rooms: rooms, participants: participants}
}

// List returns every participant of the room with user display fields
// plus a total count taken from the same store snapshot. Requires read
// access (owner or any participant record).
func (s *ParticipantService) List(ctx context.Context, actorID uint64, link string) ([]model.ParticipantInfo, int, error) {
	room, actor, err := s.load(ctx, actorID, link)
	if err != nil {
		return nil, 0, err
	}
	if err := auth.Authorize(actorID, room, actor, auth.ActionListParticipants); err != nil {
		return nil, 0, translate(err)
	}
	return s.participants.ListWithUsers(ctx, room.ID)
}

// ChangeRole mutates the target's role inside the room. The actor must
// be the owner or hold an editor record; the target must already be a
// participant, since role changes never enroll anyone. The updated record,
// including the target's display name, is returned for confirmation
// messaging.
func (s *ParticipantService) ChangeRole(ctx context.Context, actorID uint64, link string, targetUserID uint64, rawRole string) (model.ParticipantInfo, error) {
	role, ok := model.ParseRole(rawRole)
	if !ok {
		return model.ParticipantInfo{}, ErrInvalidRole
	}

	room, actor, err := s.load(ctx, actorID, link)
	if err != nil {
		return model.ParticipantInfo{}, err
	}

	var target *model.Participant
	tp, err := s.participants.Get(ctx, room.ID, targetUserID)
	switch {
	case err == nil:
		target = &tp
	case errors.Is(err, repository.ErrNotFound):
		// leave target nil; the policy denies with NotFound
	default:
		return model.ParticipantInfo{}, err
	}

	if err := auth.AuthorizeRoleChange(actorID, room, actor, target); err != nil {
		return model.ParticipantInfo{}, translate(err)
	}

	info, err := s.participants.UpdateRole(ctx, room.ID, targetUserID, role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.ParticipantInfo{}, ErrNotFound
		}
		return model.ParticipantInfo{}, err
	}
	return info, nil
}

func (s *ParticipantService) load(ctx context.Context, actorID uint64, link string) (model.Room, *model.Participant, error) {
	room, err := s.rooms.GetByLink(ctx, link)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Room{}, nil, ErrNotFound
		}
		return model.Room{}, nil, err
	}
	p, err := s.participants.Get(ctx, room.ID, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return room, nil, nil
		}
		return model.Room{}, nil, err
	}
	return room, &p, nil
}
