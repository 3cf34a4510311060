package wm

import "time"

// remnantTTL bounds how long a closing-animation remnant is kept around
// after its client is gone, so a repaint loop that never calls
// PruneRemnants cannot leak them forever.
const remnantTTL = 2 * time.Second

// RemnantTracker owns the two-phase destroy of §3's Lifecycle: phase one
// (Closing=true) keeps the window's last painted frame on screen as a
// remnant while any closing effect plays, phase two drops it the moment
// the effect finishes or the TTL elapses, whichever comes first.
type RemnantTracker struct {
	deadline map[WindowID]time.Time
}

func NewRemnantTracker() *RemnantTracker {
	return &RemnantTracker{deadline: make(map[WindowID]time.Time)}
}

// BeginClosing marks w as a remnant: still present for painting, no
// longer eligible for focus, input, or stacking restacking decisions
// beyond staying wherever it already was.
func (t *RemnantTracker) BeginClosing(w *Window, now time.Time) {
	w.Closing = true
	w.Kind = KindRemnant
	w.AcceptsFocus = false
	t.deadline[w.ID] = now.Add(remnantTTL)
}

// EffectFinished ends the remnant immediately, independent of the TTL,
// the path taken when a compositor effect reports its closing animation
// is done.
func (t *RemnantTracker) EffectFinished(id WindowID) {
	delete(t.deadline, id)
}

// Expired returns every remnant whose TTL has elapsed as of now, for the
// caller to fully unmanage.
func (t *RemnantTracker) Expired(now time.Time) []WindowID {
	var out []WindowID
	for id, deadline := range t.deadline {
		if !now.Before(deadline) {
			out = append(out, id)
		}
	}
	for _, id := range out {
		delete(t.deadline, id)
	}
	return out
}

// Tracking reports whether id is currently a tracked remnant.
func (t *RemnantTracker) Tracking(id WindowID) bool {
	_, ok := t.deadline[id]
	return ok
}
