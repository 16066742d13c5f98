// Package playersync holds the viewer-side reconciliation rules of the sync
// protocol: how a viewer's player applies relayed host actions and how far
// its clock may drift from a host sample before it force-seeks.
package playersync

import (
	"math"
	"time"
)

const (
	// drift beyond this many seconds triggers a corrective seek; anything
	// smaller is left alone to avoid visible jitter
	DriftThreshold = 0.5

	// pausing some players snaps playback backward; re-seeking shortly
	// after the pause lands the clock where the host reported it
	PauseSeekDelay = 100 * time.Millisecond
)

// Player is the minimal control surface a viewer's local player exposes.
type Player interface {
	CurrentTime() float64
	SeekTo(seconds float64)
	Play()
	Pause()
}

// NeedsCorrection reports whether a viewer at local should snap to sample.
// The threshold is strict: a drift of exactly DriftThreshold is tolerated.
func NeedsCorrection(local, sample float64) bool {
	return math.Abs(local-sample) > DriftThreshold
}

type Reconciler struct {
	player Player
	after  func(d time.Duration, f func()) *time.Timer
}

func NewReconciler(player Player) *Reconciler {
	return &Reconciler{
		player: player,
		after:  time.AfterFunc,
	}
}

// ApplyAction reconciles the local player against a relayed host action.
// Unknown kinds are ignored.
func (r *Reconciler) ApplyAction(kind string, seconds float64) {
	switch kind {
	case "play":
		r.player.SeekTo(seconds)
		r.player.Play()
	case "pause":
		r.player.Pause()
		r.after(PauseSeekDelay, func() {
			r.player.SeekTo(seconds)
		})
	case "seek":
		r.player.SeekTo(seconds)
	}
}

// ApplyClockSample force-seeks only when the drift exceeds the threshold.
func (r *Reconciler) ApplyClockSample(seconds float64) {
	if NeedsCorrection(r.player.CurrentTime(), seconds) {
		r.player.SeekTo(seconds)
	}
}
