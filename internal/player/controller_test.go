package player

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workorg/server/internal/relay"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakePlayer struct {
	position  float64
	minimized bool
	calls     []string
}

func (p *fakePlayer) Play(position float64)  { p.position = position; p.calls = append(p.calls, "play") }
func (p *fakePlayer) Pause(position float64) { p.position = position; p.calls = append(p.calls, "pause") }
func (p *fakePlayer) Seek(position float64)  { p.position = position; p.calls = append(p.calls, "seek") }
func (p *fakePlayer) SetMinimized(minimized bool) {
	p.minimized = minimized
	p.calls = append(p.calls, "minimize")
}
func (p *fakePlayer) Position() float64 { return p.position }
func (p *fakePlayer) Teardown()         { p.calls = append(p.calls, "teardown") }

type emitted struct {
	event   string
	payload any
}

type fakeEmitter struct {
	events []emitted
}

func (e *fakeEmitter) Emit(event string, payload any) error {
	e.events = append(e.events, emitted{event: event, payload: payload})
	return nil
}

func (e *fakeEmitter) eventsOfType(event string) []emitted {
	var out []emitted
	for _, ev := range e.events {
		if ev.event == event {
			out = append(out, ev)
		}
	}
	return out
}

type fakeFetcher struct {
	record *Record
	err    error
	calls  int
}

func (f *fakeFetcher) FetchRecord(ctx context.Context, projectID string) (*Record, error) {
	f.calls++
	return f.record, f.err
}

func newTestController(record *Record, clock *fakeClock) (*Controller, *fakePlayer, *fakeEmitter, *fakeFetcher) {
	p := &fakePlayer{}
	e := &fakeEmitter{}
	f := &fakeFetcher{record: record}
	c := NewController("p1", p, e, f, slog.Default(), &Config{Now: clock.Now})

	return c, p, e, f
}

func TestJoinReconcilesAgainstRecord(t *testing.T) {
	clock := newFakeClock()
	c, p, e, _ := newTestController(&Record{
		VideoID:     "abc123",
		IsPlaying:   true,
		CurrentTime: 42,
		IsMinimized: true,
	}, clock)

	require.NoError(t, c.Join(context.Background()))

	assert.Equal(t, StateSynced, c.State())
	assert.Equal(t, []string{"minimize", "seek", "play"}, p.calls)
	assert.Equal(t, 42.0, p.position)
	assert.True(t, p.minimized)

	joins := e.eventsOfType(relay.EventJoinProject)
	require.Len(t, joins, 1)

	assert.ErrorIs(t, c.Join(context.Background()), ErrAlreadyJoined)
}

func TestJoinWithoutSharedVideo(t *testing.T) {
	clock := newFakeClock()
	c, p, _, _ := newTestController(nil, clock)

	require.NoError(t, c.Join(context.Background()))

	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, p.calls, "nothing to render without a record")
}

func TestApplyPlaySuppressesEcho(t *testing.T) {
	clock := newFakeClock()
	c, _, e, _ := newTestController(&Record{VideoID: "abc123"}, clock)
	require.NoError(t, c.Join(context.Background()))
	clock.Advance(time.Second)

	c.ApplyPlay(10)

	// the player fires its own play callback as a result of the applied
	// event; within the suppression window it must not be re-emitted
	c.OnPlayerPlay()
	assert.Empty(t, e.eventsOfType(relay.EventPlay))

	clock.Advance(600 * time.Millisecond)
	c.OnPlayerPlay()
	assert.Len(t, e.eventsOfType(relay.EventPlay), 1, "a genuine local play after the window must be emitted")
}

func TestApplyBeforeJoinIsIgnored(t *testing.T) {
	clock := newFakeClock()
	c, p, _, _ := newTestController(&Record{VideoID: "abc123"}, clock)

	c.ApplyPlay(10)
	c.ApplyPause(10)
	c.ApplySeek(10)
	c.ApplyMinimized(true)

	assert.Empty(t, p.calls)
	assert.Equal(t, StateIdle, c.State())
}

func TestPingPongTerminates(t *testing.T) {
	// Two controllers wired back to back: everything A emits is applied to
	// B and vice versa, with each apply followed by the player callback it
	// would cause. The exchange must not oscillate.
	clockA := newFakeClock()
	clockB := newFakeClock()

	playerA := &fakePlayer{}
	playerB := &fakePlayer{}
	fetcher := &fakeFetcher{record: &Record{VideoID: "abc123"}}

	var a, b *Controller

	emitterA := &fakeEmitter{}
	emitterB := &fakeEmitter{}

	a = NewController("p1", playerA, emitterA, fetcher, slog.Default(), &Config{Now: clockA.Now})
	b = NewController("p1", playerB, emitterB, fetcher, slog.Default(), &Config{Now: clockB.Now})

	require.NoError(t, a.Join(context.Background()))
	require.NoError(t, b.Join(context.Background()))
	clockA.Advance(time.Second)
	clockB.Advance(time.Second)

	// only the join handshakes so far
	emitterA.events = nil
	emitterB.events = nil

	// a genuine local play on A
	playerA.position = 30
	a.OnPlayerPlay()
	require.Len(t, emitterA.eventsOfType(relay.EventPlay), 1)

	// deliver to B; B's player fires its play callback while suppressed
	b.ApplyPlay(30)
	b.OnPlayerPlay()

	assert.Empty(t, emitterB.events, "the applied event must not bounce back")

	// and nothing further comes out of A either
	assert.Len(t, emitterA.events, 1)
}

func TestDriftTriggersImplicitSeek(t *testing.T) {
	clock := newFakeClock()
	c, _, e, _ := newTestController(&Record{VideoID: "abc123", IsPlaying: true, CurrentTime: 10}, clock)
	require.NoError(t, c.Join(context.Background()))
	clock.Advance(time.Second)

	// 10s record position + 1s elapsed while playing: expected 11
	c.OnPlayerProgress(12)
	assert.Empty(t, e.eventsOfType(relay.EventSeek), "1s divergence is ordinary playback jitter")

	c.OnPlayerProgress(60)
	seeks := e.eventsOfType(relay.EventSeek)
	require.Len(t, seeks, 1, "divergence beyond the limit is an implicit seek")
	assert.Equal(t, playbackPayload{ProjectID: "p1", CurrentTime: 60}, seeks[0].payload)

	// suppressed progress reports never emit
	c.ApplyPause(60)
	c.OnPlayerProgress(90)
	assert.Len(t, e.eventsOfType(relay.EventSeek), 1)
}

func TestApplyVideoAddedResyncs(t *testing.T) {
	clock := newFakeClock()
	c, p, _, f := newTestController(nil, clock)
	require.NoError(t, c.Join(context.Background()))
	require.Equal(t, StateIdle, c.State())

	f.record = &Record{VideoID: "def456", CurrentTime: 0}
	require.NoError(t, c.ApplyVideoAdded(context.Background()))

	assert.Equal(t, StateSynced, c.State())
	assert.Contains(t, p.calls, "seek")
}

func TestApplyVideoRemovedKeepsMembership(t *testing.T) {
	clock := newFakeClock()
	c, p, _, f := newTestController(&Record{VideoID: "abc123"}, clock)
	require.NoError(t, c.Join(context.Background()))

	c.ApplyVideoRemoved()
	assert.Equal(t, StateIdle, c.State())
	assert.Contains(t, p.calls, "teardown")

	// still in the room: a later video-added reaches this client
	f.record = &Record{VideoID: "def456"}
	require.NoError(t, c.ApplyVideoAdded(context.Background()))
	assert.Equal(t, StateSynced, c.State())
}

func TestLeaveTearsDown(t *testing.T) {
	clock := newFakeClock()
	c, p, e, _ := newTestController(&Record{VideoID: "abc123"}, clock)
	require.NoError(t, c.Join(context.Background()))

	c.Leave()
	assert.Equal(t, StateIdle, c.State())
	assert.Contains(t, p.calls, "teardown")
	assert.Len(t, e.eventsOfType(relay.EventLeaveProject), 1)

	// leaving twice is a no-op
	c.Leave()
	assert.Len(t, e.eventsOfType(relay.EventLeaveProject), 1)
}
