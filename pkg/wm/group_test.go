package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRegistryFindOrCreateReusesLeader(t *testing.T) {
	r := newGroupRegistry(newIDAllocator())
	a := r.findOrCreate(5)
	b := r.findOrCreate(5)
	assert.Equal(t, a.ID, b.ID, "the same leader window must always resolve to the same group")
}

func TestGroupRegistryFindOrCreateWithZeroLeaderAlwaysFresh(t *testing.T) {
	r := newGroupRegistry(newIDAllocator())
	a := r.findOrCreate(0)
	b := r.findOrCreate(0)
	assert.NotEqual(t, a.ID, b.ID, "a leaderless window always gets its own group")
}

func TestGroupBumpUserTimeTakesMaximum(t *testing.T) {
	g := newGroup(1)
	g.BumpUserTime(10)
	g.BumpUserTime(3)
	assert.Equal(t, int64(10), g.UserTime, "an older timestamp must never regress the group's recency")
	g.BumpUserTime(20)
	assert.Equal(t, int64(20), g.UserTime)
}

func TestGroupRegistryReleaseDeletesEmptyGroup(t *testing.T) {
	r := newGroupRegistry(newIDAllocator())
	g := r.findOrCreate(7)
	g.Add(1)
	g.Add(2)

	r.release(g, 1)
	_, ok := r.get(g.ID)
	require.True(t, ok, "a group with remaining members survives")

	r.release(g, 2)
	_, ok = r.get(g.ID)
	assert.False(t, ok, "an empty group is deleted")
	_, leaderStillMapped := r.byLeader[7]
	assert.False(t, leaderStillMapped)
}
