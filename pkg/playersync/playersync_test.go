package playersync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	time    float64
	calls   []string
	seeks   []float64
	playing bool
}

func (p *fakePlayer) CurrentTime() float64 { return p.time }

func (p *fakePlayer) SeekTo(seconds float64) {
	p.calls = append(p.calls, "seek")
	p.seeks = append(p.seeks, seconds)
	p.time = seconds
}

func (p *fakePlayer) Play() {
	p.calls = append(p.calls, "play")
	p.playing = true
}

func (p *fakePlayer) Pause() {
	p.calls = append(p.calls, "pause")
	p.playing = false
}

// runs the delayed pause re-seek immediately instead of after the delay
func newImmediateReconciler(p Player) *Reconciler {
	r := NewReconciler(p)
	r.after = func(_ time.Duration, f func()) *time.Timer {
		f()
		return nil
	}

	return r
}

func TestApplyPlaySeeksThenPlays(t *testing.T) {
	p := &fakePlayer{time: 3}
	r := newImmediateReconciler(p)

	r.ApplyAction("play", 12.5)

	assert.Equal(t, []string{"seek", "play"}, p.calls)
	assert.Equal(t, []float64{12.5}, p.seeks)
	assert.True(t, p.playing)
}

func TestApplyPauseReseeksAfterDelay(t *testing.T) {
	p := &fakePlayer{time: 8, playing: true}
	r := newImmediateReconciler(p)

	r.ApplyAction("pause", 7.9)

	assert.Equal(t, []string{"pause", "seek"}, p.calls, "pause must land before the corrective seek")
	assert.Equal(t, []float64{7.9}, p.seeks)
	assert.False(t, p.playing)
}

func TestApplyPauseUsesRealTimer(t *testing.T) {
	p := &fakePlayer{time: 8, playing: true}
	r := NewReconciler(p)

	r.ApplyAction("pause", 7.9)
	assert.Equal(t, []string{"pause"}, p.calls, "seek must not fire synchronously")

	require.Eventually(t, func() bool {
		return len(p.seeks) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 7.9, p.seeks[0])
}

func TestApplySeekOnlySeeks(t *testing.T) {
	p := &fakePlayer{time: 1, playing: true}
	r := newImmediateReconciler(p)

	r.ApplyAction("seek", 42)

	assert.Equal(t, []string{"seek"}, p.calls)
	assert.True(t, p.playing, "seek must not change playback state")
}

func TestApplyUnknownKindIgnored(t *testing.T) {
	p := &fakePlayer{}
	r := newImmediateReconciler(p)

	r.ApplyAction("rewind", 5)

	assert.Empty(t, p.calls)
}

func TestDriftThresholdIsStrict(t *testing.T) {
	assert.False(t, NeedsCorrection(10.0, 10.5), "exactly 0.5s of drift is tolerated")
	assert.False(t, NeedsCorrection(10.5, 10.0))
	assert.True(t, NeedsCorrection(10.0, 10.5001))
	assert.True(t, NeedsCorrection(10.5001, 10.0))
	assert.False(t, NeedsCorrection(10.0, 10.0))
}

func TestApplyClockSample(t *testing.T) {
	p := &fakePlayer{time: 10}
	r := newImmediateReconciler(p)

	r.ApplyClockSample(10.4)
	assert.Empty(t, p.calls, "small drift is left uncorrected")

	r.ApplyClockSample(11.01)
	assert.Equal(t, []string{"seek"}, p.calls)
	assert.Equal(t, 11.01, p.time)
}
