package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/codeshare/internal/service"
	"github.com/iliyamo/codeshare/internal/utils"
)

// collidingChecker reports the first n probes as taken, everything
// after as free, regardless of the candidate.
type collidingChecker struct {
	collisions int
	probes     int
}

func (c *collidingChecker) LinkExists(context.Context, string) (bool, error) {
	c.probes++
	if c.probes <= c.collisions {
		return true, nil
	}
	return false, nil
}

func TestLinkResolverReturnsFirstFreeCandidate(t *testing.T) {
	checker := &collidingChecker{}
	r := service.NewLinkResolver(checker)

	link, err := r.Resolve(context.Background(), 6)
	require.NoError(t, err)
	assert.Len(t, link, 6)
	assert.True(t, strings.HasPrefix(link, utils.LinkPrefix))
	assert.Equal(t, 1, checker.probes)
}

func TestLinkResolverRetriesOnCollision(t *testing.T) {
	checker := &collidingChecker{collisions: 2}
	r := service.NewLinkResolver(checker)

	link, err := r.Resolve(context.Background(), 6)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, utils.LinkPrefix))
	assert.Equal(t, 3, checker.probes, "two collisions then one free probe")
}

func TestLinkResolverExhaustsRetryBudget(t *testing.T) {
	checker := &collidingChecker{collisions: 1 << 30}
	r := service.NewLinkResolver(checker)

	_, err := r.Resolve(context.Background(), 6)
	require.ErrorIs(t, err, service.ErrLinkExhausted)
	assert.Equal(t, 3, checker.probes, "budget is three candidates")
}

func TestLinkResolverFailsOnImpossibleLength(t *testing.T) {
	// A length shorter than the prefix cannot be generated; the
	// resolver must abort rather than persist the sentinel value.
	r := service.NewLinkResolver(&collidingChecker{})

	_, err := r.Resolve(context.Background(), 2)
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrLinkExhausted)
}
