package service

import (
	"context"
	"errors"

	"github.com/iliyamo/codeshare/internal/utils"
)

// LinkChecker is the slice of the room store the resolver needs: an
// existence probe that covers soft-deleted rooms too, so a link that
// still resolves in historical references is never reissued.
type LinkChecker interface {
	LinkExists(ctx context.Context, link string) (bool, error)
}

// maxLinkAttempts caps how many candidates the resolver generates
// before giving up. The identifier space behind the fixed prefix is
// small (26^3 for the default length), so collisions are expected at
// scale and the budget keeps creation latency bounded.
const maxLinkAttempts = 3

// LinkResolver produces collision-free room links by generating
// candidates and probing the store. The pre-insert probe is an
// optimization only; the unique constraint on rooms.link decides
// check-then-insert races, and the room service retries on that
// constraint with a fresh resolve.
type LinkResolver struct {
	rooms LinkChecker
}

// NewLinkResolver returns a resolver backed by the given store.
func NewLinkResolver(rooms LinkChecker) *LinkResolver {
	return &LinkResolver{rooms: rooms}
}

// Resolve returns a link of the requested total length that did not
// exist at probe time. It fails with ErrLinkExhausted after the
// attempt budget is spent and with a plain error when generation
// itself faults.
func (r *LinkResolver) Resolve(ctx context.Context, length int) (string, error) {
	for attempt := 0; attempt < maxLinkAttempts; attempt++ {
		candidate := utils.GenerateLink(length)
		if candidate == utils.UngeneratedLink {
			return "", errors.New("link generation failed")
		}
		exists, err := r.rooms.LinkExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrLinkExhausted
}
