package wm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusChainUpdateMovesToFront(t *testing.T) {
	c := NewFocusChain(nil)
	c.Update(1, nil)
	c.Update(2, nil)
	c.Update(3, nil)

	require.Len(t, c.global, 3)
	assert.Equal(t, WindowID(3), c.global[0])

	c.Update(1, nil)
	assert.Equal(t, WindowID(1), c.global[0])
}

func TestFocusChainRemoveClearsActive(t *testing.T) {
	c := NewFocusChain(nil)
	c.Activate(1, nil)
	assert.Equal(t, WindowID(1), c.Active())

	c.Remove(1)
	assert.Equal(t, WindowID(0), c.Active())
}

func TestRequestFocusGrantedWhenNoActiveWindow(t *testing.T) {
	c := NewFocusChain(nil)
	w := newWindow(1, KindControlled)
	granted := c.RequestFocus(w, nil, time.Now())
	assert.True(t, granted)
}

func TestRequestFocusDeferredWhenProtectionExceedsLevel(t *testing.T) {
	c := NewFocusChain(nil)
	requester := newWindow(1, KindControlled)
	requester.FSPLevel = int(FSPLow)

	active := newWindow(2, KindControlled)
	active.ProtectionLevel = int(ProtectHigh)
	active.UserTime = -1

	granted := c.RequestFocus(requester, active, time.Now())
	assert.False(t, granted, "low FSP requester should be deferred against a highly protected active window")
	assert.Contains(t, c.shouldGetFocus, WindowID(1))
}

func TestRequestFocusAlwaysGrantedAtFSPNone(t *testing.T) {
	c := NewFocusChain(nil)
	requester := newWindow(1, KindControlled)
	requester.FSPLevel = int(FSPNone)

	active := newWindow(2, KindControlled)
	active.ProtectionLevel = int(ProtectNone)

	granted := c.RequestFocus(requester, active, time.Now())
	assert.True(t, granted, "L = max(active protection, requester FSP) is none, so the request is always granted")
}

// TestRequestFocusDeniedWhenUserTimeOlderAtNormalLevel reproduces §8
// scenario 2: FSP=2 (normal), active window's user-time is 1000, the
// requester's is 500. The request must be denied so the caller can mark
// the requester demands-attention instead of stealing focus.
func TestRequestFocusDeniedWhenUserTimeOlderAtNormalLevel(t *testing.T) {
	c := NewFocusChain(nil)
	requester := newWindow(1, KindControlled)
	requester.FSPLevel = int(FSPMedium)
	requester.UserTime = 500

	active := newWindow(2, KindControlled)
	active.ProtectionLevel = int(ProtectNone)
	active.UserTime = 1000

	granted := c.RequestFocus(requester, active, time.Now())
	assert.False(t, granted, "an older user-time than the active window loses at normal FSP level")
	assert.Contains(t, c.shouldGetFocus, WindowID(1))
}

// TestRequestFocusGrantedWhenUserTimeNewerAtNormalLevel is the other
// half of §8 scenario 2: the same setup but with a newer user-time,
// which must win outright.
func TestRequestFocusGrantedWhenUserTimeNewerAtNormalLevel(t *testing.T) {
	c := NewFocusChain(nil)
	requester := newWindow(1, KindControlled)
	requester.FSPLevel = int(FSPMedium)
	requester.UserTime = 1500

	active := newWindow(2, KindControlled)
	active.ProtectionLevel = int(ProtectNone)
	active.UserTime = 1000

	granted := c.RequestFocus(requester, active, time.Now())
	assert.True(t, granted)
}

func TestDrainShouldGetFocusClearsQueue(t *testing.T) {
	c := NewFocusChain(nil)
	c.queueShouldGetFocus(1)
	c.queueShouldGetFocus(2)

	drained := c.DrainShouldGetFocus()
	assert.Equal(t, []WindowID{1, 2}, drained)
	assert.Empty(t, c.shouldGetFocus)
}
