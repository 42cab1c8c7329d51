package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/codeshare/internal/auth"
	"github.com/iliyamo/codeshare/internal/model"
	"github.com/iliyamo/codeshare/internal/queue"
	"github.com/iliyamo/codeshare/internal/repository"
)

// Defaults applied to freshly created rooms. They mirror what the
// frontend expects before the first edit arrives.
const (
	defaultTitle    = "Created a new Codeshare room"
	defaultLanguage = "plaintext"
	defaultContent  = "Hello World!"
)

// createAttempts bounds how many times room creation retries after the
// insert loses a check-then-insert race on the link unique constraint.
const createAttempts = 3

// RoomStore is the persistence surface the room service depends on.
// *repository.RoomRepo satisfies it; tests substitute fakes.
type RoomStore interface {
	CreateWithOwner(ctx context.Context, room *model.Room) error
	GetByLink(ctx context.Context, link string) (model.Room, error)
	LinkExists(ctx context.Context, link string) (bool, error)
	SoftDelete(ctx context.Context, roomID uint64) error
	SetEditable(ctx context.Context, roomID uint64, editable bool) error
}

// ParticipantStore is the membership surface shared by the room,
// participant and admission services.
type ParticipantStore interface {
	Get(ctx context.Context, roomID, userID uint64) (model.Participant, error)
	Create(ctx context.Context, roomID, userID uint64, role model.Role) error
	ListWithUsers(ctx context.Context, roomID uint64) ([]model.ParticipantInfo, int, error)
	UpdateRole(ctx context.Context, roomID, userID uint64, role model.Role) (model.ParticipantInfo, error)
}

// RoomService orchestrates the room lifecycle: creation with an
// atomically enrolled owner, soft deletion and mode toggling.
type RoomService struct {
	rooms        RoomStore
	participants ParticipantStore
	links        *LinkResolver
	linkLength   int
	publish      func(ctx context.Context, ev queue.RoomEvent) error
}

// NewRoomService wires a room service. linkLength is the total length
// of generated links including the fixed prefix. publish may be nil to
// disable event publication (tests, broker-less deployments).
func NewRoomService(rooms RoomStore, participants ParticipantStore, links *LinkResolver, linkLength int, publish func(ctx context.Context, ev queue.RoomEvent) error) *RoomService {
	if rooms == nil || participants == nil || links == nil {
		panic("nil dependency passed to NewRoomService")
	}
	return &RoomService{
		rooms:        rooms,
		participants: participants,
		links:        links,
		linkLength:   linkLength,
		publish:      publish,
	}
}

// Create obtains a unique link and persists the room together with the
// owner's editor participant record. The two inserts share one
// transaction inside the store, so no observable state ever has a room
// without its owner enrolled. If the insert hits the link unique
// constraint the whole attempt restarts with a freshly resolved link.
func (s *RoomService) Create(ctx context.Context, ownerID uint64) (model.Room, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		link, err := s.links.Resolve(ctx, s.linkLength)
		if err != nil {
			return model.Room{}, err
		}
		room := model.Room{
			Link:     link,
			Title:    defaultTitle,
			Language: defaultLanguage,
			Content:  defaultContent,
			OwnerID:  ownerID,
		}
		err = s.rooms.CreateWithOwner(ctx, &room)
		if errors.Is(err, repository.ErrLinkTaken) {
			// Lost the race between the existence probe and the
			// insert; the constraint is authoritative, try again.
			continue
		}
		if err != nil {
			return model.Room{}, err
		}
		s.emit(ctx, queue.RoomEvent{
			Type:       queue.RoomCreated,
			RoomID:     room.ID,
			Link:       room.Link,
			Title:      room.Title,
			Language:   room.Language,
			OwnerID:    room.OwnerID,
			ActorID:    ownerID,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
		return room, nil
	}
	return model.Room{}, ErrLinkExhausted
}

// Get returns a room's full detail for an actor with read access.
func (s *RoomService) Get(ctx context.Context, actorID uint64, link string) (model.Room, error) {
	room, actor, err := s.load(ctx, actorID, link)
	if err != nil {
		return model.Room{}, err
	}
	if err := auth.Authorize(actorID, room, actor, auth.ActionViewContent); err != nil {
		return model.Room{}, translate(err)
	}
	return room, nil
}

// Download returns the room for content export. The handler shapes the
// attachment; access follows the same read rule as Get.
func (s *RoomService) Download(ctx context.Context, actorID uint64, link string) (model.Room, error) {
	room, actor, err := s.load(ctx, actorID, link)
	if err != nil {
		return model.Room{}, err
	}
	if err := auth.Authorize(actorID, room, actor, auth.ActionDownload); err != nil {
		return model.Room{}, translate(err)
	}
	return room, nil
}

// Delete soft-deletes a room. Only the owner with editor standing may
// delete; participant rows stay untouched and the link never resolves
// again.
func (s *RoomService) Delete(ctx context.Context, actorID uint64, link string) error {
	room, actor, err := s.load(ctx, actorID, link)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actorID, room, actor, auth.ActionDeleteRoom); err != nil {
		return translate(err)
	}
	if err := s.rooms.SoftDelete(ctx, room.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.emit(ctx, queue.RoomEvent{
		Type:       queue.RoomDeleted,
		RoomID:     room.ID,
		Link:       room.Link,
		OwnerID:    room.OwnerID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

// SetEditable switches the room between edit and view mode, gated by
// the same owner-with-editor-standing rule as deletion.
func (s *RoomService) SetEditable(ctx context.Context, actorID uint64, link string, editable bool) error {
	room, actor, err := s.load(ctx, actorID, link)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actorID, room, actor, auth.ActionToggleEditMode); err != nil {
		return translate(err)
	}
	if err := s.rooms.SetEditable(ctx, room.ID, editable); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// load fetches the room by link and the actor's participant record.
// The participant pointer is nil when the actor is not enrolled; any
// other store failure propagates.
func (s *RoomService) load(ctx context.Context, actorID uint64, link string) (model.Room, *model.Participant, error) {
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

// emit publishes a lifecycle event, best effort. Publish failures are
// logged and swallowed; the room operation already committed.
func (s *RoomService) emit(ctx context.Context, ev queue.RoomEvent) {
	if s.publish == nil {
		return
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("room-service: publish %s for room %d failed: %v", ev.Type, ev.RoomID, err)
	}
}

// translate maps auth package denials onto service sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, auth.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, auth.ErrForbidden):
		return ErrForbidden
	}
	return err
}
