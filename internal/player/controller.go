// Package player implements the client-side sync controller: it applies
// locally initiated playback actions by emitting events, applies incoming
// relayed events to the local player while suppressing its own re-emission,
// and reconciles against the persisted playback record on room entry.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/workorg/server/internal/relay"
)

var ErrAlreadyJoined = errors.New("already joined")

type State int

const (
	StateIdle State = iota
	StateJoining
	StateSynced
	StateApplying
	StateLeaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateSynced:
		return "synced"
	case StateApplying:
		return "applying"
	case StateLeaving:
		return "leaving"
	default:
		return "unknown"
	}
}

// Record is the controller's view of the persisted playback record.
type Record struct {
	VideoID     string
	VideoURL    string
	Title       string
	IsPlaying   bool
	CurrentTime float64
	IsMinimized bool
}

// Player is the local video surface the controller drives.
type Player interface {
	Play(position float64)
	Pause(position float64)
	Seek(position float64)
	SetMinimized(minimized bool)
	Position() float64
	Teardown()
}

// Emitter sends outbound events toward the relay.
type Emitter interface {
	Emit(event string, payload any) error
}

// RecordFetcher loads the persisted playback record. A nil record with a
// nil error means no video is shared: a legitimate empty result.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, projectID string) (*Record, error)
}

type Config struct {
	// SuppressWindow bounds how long player callbacks are muted after an
	// incoming event is applied. Defaults to 500ms.
	SuppressWindow time.Duration
	// DriftLimit is the playhead divergence, in seconds, treated as an
	// implicit seek. Defaults to 2.
	DriftLimit float64
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

type roomPayload struct {
	ProjectID string `json:"projectId"`
}

type playbackPayload struct {
	ProjectID   string  `json:"projectId"`
	CurrentTime float64 `json:"currentTime"`
}

type minimizedPayload struct {
	ProjectID   string `json:"projectId"`
	IsMinimized bool   `json:"isMinimized"`
}

type Controller struct {
	projectID string
	player    Player
	emitter   Emitter
	fetcher   RecordFetcher
	logger    *slog.Logger

	suppressWindow time.Duration
	driftLimit     float64
	now            func() time.Time

	mu             sync.Mutex
	state          State
	joined         bool
	isPlaying      bool
	lastPosition   float64
	lastPositionAt time.Time
	suppressUntil  time.Time
}

func NewController(projectID string, p Player, e Emitter, f RecordFetcher, logger *slog.Logger, cfg *Config) *Controller {
	c := &Controller{
		projectID:      projectID,
		player:         p,
		emitter:        e,
		fetcher:        f,
		logger:         logger,
		suppressWindow: 500 * time.Millisecond,
		driftLimit:     2,
		now:            time.Now,
	}

	if cfg != nil {
		if cfg.SuppressWindow > 0 {
			c.suppressWindow = cfg.SuppressWindow
		}
		if cfg.DriftLimit > 0 {
			c.driftLimit = cfg.DriftLimit
		}
		if cfg.Now != nil {
			c.now = cfg.Now
		}
	}

	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Join enters the project's room and reconciles the local player against
// the persisted record before any relay event is accepted. A failed emit
// degrades to reconciliation-only instead of failing the join.
func (c *Controller) Join(ctx context.Context) error {
	c.mu.Lock()
	if c.joined {
		c.mu.Unlock()
		return ErrAlreadyJoined
	}
	c.state = StateJoining
	c.mu.Unlock()

	if err := c.emitter.Emit(relay.EventJoinProject, roomPayload{ProjectID: c.projectID}); err != nil {
		c.logger.Warn("join not sent, continuing in reconciliation-only mode", "error", err)
	}

	record, err := c.fetcher.FetchRecord(ctx, c.projectID)
	if err != nil {
		c.mu.Lock()
		c.state = StateIdle
		c.mu.Unlock()
		return fmt.Errorf("failed to fetch playback record: %w", err)
	}

	c.mu.Lock()
	c.joined = true
	c.mu.Unlock()

	c.syncFromRecord(record)

	return nil
}

// Leave exits the room and tears down the local player. Reachable from any
// state.
func (c *Controller) Leave() {
	c.mu.Lock()
	if !c.joined {
		c.mu.Unlock()
		return
	}
	c.state = StateLeaving
	c.joined = false
	c.mu.Unlock()

	if err := c.emitter.Emit(relay.EventLeaveProject, roomPayload{ProjectID: c.projectID}); err != nil {
		c.logger.Warn("leave not sent", "error", err)
	}

	c.player.Teardown()

	c.mu.Lock()
	c.state = StateIdle
	c.isPlaying = false
	c.mu.Unlock()
}

// ApplyPlay applies an incoming play event to the local player.
func (c *Controller) ApplyPlay(currentTime float64) {
	if !c.beginApply() {
		return
	}

	c.player.Seek(currentTime)
	c.player.Play(currentTime)

	c.finishApply(currentTime, true)
}

// ApplyPause applies an incoming pause event to the local player.
func (c *Controller) ApplyPause(currentTime float64) {
	if !c.beginApply() {
		return
	}

	c.player.Seek(currentTime)
	c.player.Pause(currentTime)

	c.finishApply(currentTime, false)
}

// ApplySeek applies an incoming seek event to the local player.
func (c *Controller) ApplySeek(currentTime float64) {
	c.mu.Lock()
	if !c.joined || c.state != StateSynced {
		c.mu.Unlock()
		return
	}
	c.state = StateApplying
	c.suppressUntil = c.now().Add(c.suppressWindow)
	wasPlaying := c.isPlaying
	c.mu.Unlock()

	c.player.Seek(currentTime)

	c.finishApply(currentTime, wasPlaying)
}

// ApplyMinimized applies an incoming minimize toggle.
func (c *Controller) ApplyMinimized(isMinimized bool) {
	c.mu.Lock()
	if !c.joined || c.state != StateSynced {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.player.SetMinimized(isMinimized)
}

// ApplyVideoAdded re-fetches the record and syncs the local player to it.
// Works from playback-idle too, so a freshly shared video starts rendering.
func (c *Controller) ApplyVideoAdded(ctx context.Context) error {
	c.mu.Lock()
	if !c.joined {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	record, err := c.fetcher.FetchRecord(ctx, c.projectID)
	if err != nil {
		return fmt.Errorf("failed to fetch playback record: %w", err)
	}

	c.syncFromRecord(record)

	return nil
}

// ApplyVideoRemoved tears down the local player; room membership is kept
// so a later video-added still reaches this client.
func (c *Controller) ApplyVideoRemoved() {
	c.mu.Lock()
	if !c.joined {
		c.mu.Unlock()
		return
	}
	c.state = StateIdle
	c.isPlaying = false
	c.mu.Unlock()

	c.player.Teardown()
}

// OnPlayerPlay is the local player's play callback. Suppressed while an
// incoming event is being applied or within the suppression window, so a
// relayed play is never bounced back.
func (c *Controller) OnPlayerPlay() {
	c.mu.Lock()
	if !c.emittableLocked() {
		c.mu.Unlock()
		return
	}
	pos := c.player.Position()
	c.setPositionLocked(pos)
	c.isPlaying = true
	c.mu.Unlock()

	c.emit(relay.EventPlay, playbackPayload{ProjectID: c.projectID, CurrentTime: pos})
}

// OnPlayerPause is the local player's pause callback.
func (c *Controller) OnPlayerPause() {
	c.mu.Lock()
	if !c.emittableLocked() {
		c.mu.Unlock()
		return
	}
	pos := c.player.Position()
	c.setPositionLocked(pos)
	c.isPlaying = false
	c.mu.Unlock()

	c.emit(relay.EventPause, playbackPayload{ProjectID: c.projectID, CurrentTime: pos})
}

// OnPlayerProgress reports the locally observed playhead. Divergence from
// the last known intended position beyond the drift limit is treated as an
// implicit seek and emitted.
func (c *Controller) OnPlayerProgress(position float64) {
	c.mu.Lock()
	if !c.emittableLocked() {
		c.mu.Unlock()
		return
	}

	expected := c.lastPosition
	if c.isPlaying {
		expected += c.now().Sub(c.lastPositionAt).Seconds()
	}
	if math.Abs(position-expected) <= c.driftLimit {
		c.mu.Unlock()
		return
	}

	c.setPositionLocked(position)
	c.mu.Unlock()

	c.emit(relay.EventSeek, playbackPayload{ProjectID: c.projectID, CurrentTime: position})
}

// SetMinimized applies a locally initiated minimize toggle and notifies
// the room.
func (c *Controller) SetMinimized(isMinimized bool) {
	c.mu.Lock()
	if !c.joined {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.player.SetMinimized(isMinimized)
	c.emit(relay.EventMinimized, minimizedPayload{ProjectID: c.projectID, IsMinimized: isMinimized})
}

func (c *Controller) beginApply() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.joined || c.state != StateSynced {
		return false
	}
	c.state = StateApplying
	c.suppressUntil = c.now().Add(c.suppressWindow)

	return true
}

func (c *Controller) finishApply(position float64, isPlaying bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setPositionLocked(position)
	c.isPlaying = isPlaying
	if c.state == StateApplying {
		c.state = StateSynced
	}
}

// syncFromRecord drives the player to the record's state exactly once,
// under suppression so the resulting player callbacks are not re-emitted.
// A nil record renders nothing and leaves playback idle.
func (c *Controller) syncFromRecord(record *Record) {
	c.mu.Lock()
	if record == nil {
		c.state = StateIdle
		c.isPlaying = false
		c.mu.Unlock()
		return
	}
	c.suppressUntil = c.now().Add(c.suppressWindow)
	c.setPositionLocked(record.CurrentTime)
	c.isPlaying = record.IsPlaying
	c.state = StateSynced
	c.mu.Unlock()

	c.player.SetMinimized(record.IsMinimized)
	c.player.Seek(record.CurrentTime)
	if record.IsPlaying {
		c.player.Play(record.CurrentTime)
	}
}

func (c *Controller) emittableLocked() bool {
	return c.joined && c.state == StateSynced && c.now().After(c.suppressUntil)
}

func (c *Controller) setPositionLocked(position float64) {
	c.lastPosition = position
	c.lastPositionAt = c.now()
}

func (c *Controller) emit(event string, payload any) {
	if err := c.emitter.Emit(event, payload); err != nil {
		c.logger.Warn("event not sent, relying on reconciliation", "event", event, "error", err)
	}
}
