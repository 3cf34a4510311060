package wm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemnantTrackerBeginClosingMarksWindow(t *testing.T) {
	tr := NewRemnantTracker()
	w := newWindow(1, KindControlled)
	now := time.Unix(1000, 0)

	tr.BeginClosing(w, now)
	assert.True(t, w.Closing)
	assert.Equal(t, KindRemnant, w.Kind)
	assert.False(t, w.AcceptsFocus)
	assert.True(t, tr.Tracking(1))
}

func TestRemnantTrackerExpiredRespectsTTL(t *testing.T) {
	tr := NewRemnantTracker()
	w := newWindow(1, KindControlled)
	now := time.Unix(1000, 0)
	tr.BeginClosing(w, now)

	assert.Empty(t, tr.Expired(now.Add(remnantTTL-time.Millisecond)))
	expired := tr.Expired(now.Add(remnantTTL))
	assert.Equal(t, []WindowID{1}, expired)
	assert.False(t, tr.Tracking(1), "an expired remnant is no longer tracked")
}

func TestRemnantTrackerEffectFinishedEndsEarly(t *testing.T) {
	tr := NewRemnantTracker()
	w := newWindow(1, KindControlled)
	now := time.Unix(1000, 0)
	tr.BeginClosing(w, now)

	tr.EffectFinished(1)
	assert.False(t, tr.Tracking(1))
	assert.Empty(t, tr.Expired(now.Add(remnantTTL)))
}
