package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDAllocatorNeverRepeatsAcrossKinds(t *testing.T) {
	a := newIDAllocator()
	w := a.nextWindowID()
	s := a.nextSubspaceID()
	g := a.nextGroupID()
	r := a.nextRuleID()

	assert.NotEqual(t, uint64(w), uint64(s))
	assert.NotEqual(t, uint64(s), uint64(g))
	assert.NotEqual(t, uint64(g), uint64(r))
}

func TestIDAllocatorSeedsNonZero(t *testing.T) {
	a := newIDAllocator()
	assert.NotZero(t, a.next)
}

func TestHandleValid(t *testing.T) {
	assert.False(t, handle{}.valid())
	assert.True(t, handle{id: 1, gen: 0}.valid())
}
