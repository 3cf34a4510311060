package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubspaceManagerStartsWithOneDefault(t *testing.T) {
	m := NewSubspaceManager(nil, newIDAllocator())
	assert.Equal(t, 1, m.Count())
	assert.NotZero(t, m.Current())
}

func TestSubspaceManagerNeverGoesBelowOne(t *testing.T) {
	m := NewSubspaceManager(nil, newIDAllocator())
	only := m.All()[0].ID
	assert.False(t, m.Remove(only))
	assert.Equal(t, 1, m.Count())
}

func TestSubspaceSetCountGrowsAndShrinks(t *testing.T) {
	m := NewSubspaceManager(nil, newIDAllocator())
	m.SetCount(4)
	require.Equal(t, 4, m.Count())

	removed := m.SetCount(2)
	assert.Equal(t, 2, m.Count())
	assert.Len(t, removed, 2)
}

func TestSubspaceGridNeighborsWrap(t *testing.T) {
	m := NewSubspaceManager(nil, newIDAllocator())
	m.SetCount(4)
	m.SetRows(2) // 2x2 grid

	ids := make([]SubspaceID, 0, 4)
	for _, s := range m.All() {
		ids = append(ids, s.ID)
	}
	first := ids[0]

	// walking east twice from the top-left corner should wrap back to it
	east1 := m.EastOf(first)
	east2 := m.EastOf(east1)
	assert.Equal(t, first, east2, "wrapping east twice in a 2-wide row returns to start")
}

func TestSubspaceSwipeCommitsAtCommitThreshold(t *testing.T) {
	m := NewSubspaceManager(nil, newIDAllocator())
	m.SetCount(2)
	start := m.Current()

	m.BeginSwipe(true)
	m.UpdateSwipe(0.3)
	changed := m.EndSwipe()
	assert.True(t, changed, "progress of 0.3 clears the 0.25 commit threshold")
	assert.NotEqual(t, start, m.Current())
}

func TestSubspaceSwipeCancelsBelowCommitThreshold(t *testing.T) {
	m := NewSubspaceManager(nil, newIDAllocator())
	m.SetCount(2)
	start := m.Current()

	m.BeginSwipe(true)
	m.UpdateSwipe(0.2)
	changed := m.EndSwipe()
	assert.False(t, changed, "progress of 0.2 falls short of the 0.25 commit threshold")
	assert.Equal(t, start, m.Current())
}
