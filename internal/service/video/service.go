// Package video is the playback record mutator: the only component allowed
// to write the playback store. Mutations pass the project access check
// first and, on success, notify the room through the relay so peers
// refresh. Live play/pause/seek never come through here; that is pure
// relay traffic.
package video

import (
	"context"
	"errors"
	"log/slog"

	"github.com/workorg/server/internal/relay"
	"github.com/workorg/server/internal/repository"
	"github.com/workorg/server/pkg/ytlink"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidReference = ytlink.ErrInvalidReference
)

type iPlaybackRepo interface {
	GetPlayback(ctx context.Context, projectID string) (repository.PlaybackRecord, error)
	PutPlayback(context.Context, *repository.PutPlaybackParams) (repository.PlaybackRecord, error)
	UpdatePlaybackFlags(context.Context, *repository.UpdatePlaybackFlagsParams) (repository.PlaybackRecord, error)
	RemovePlayback(ctx context.Context, projectID string) error
}

type iProjectAccess interface {
	HasAccess(ctx context.Context, projectID, userID string) (bool, error)
}

type iRelay interface {
	Broadcast(ctx context.Context, projectID, senderID, event string, payload any)
}

type service struct {
	playback iPlaybackRepo
	access   iProjectAccess
	relay    iRelay
	logger   *slog.Logger
}

func NewService(playback iPlaybackRepo, access iProjectAccess, relay iRelay, logger *slog.Logger) *service {
	return &service{
		playback: playback,
		access:   access,
		relay:    relay,
		logger:   logger,
	}
}

// Get returns the project's playback record, or nil when no video is
// shared: a legitimate empty result, not an error.
func (s service) Get(ctx context.Context, projectID, userID string) (*repository.PlaybackRecord, error) {
	if err := s.checkAccess(ctx, projectID, userID); err != nil {
		return nil, err
	}

	record, err := s.playback.GetPlayback(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrPlaybackNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &record, nil
}

type AddParams struct {
	ProjectID string
	UserID    string
	SessionID string
	VideoURL  string
	Title     string
}

// Add shares a video into the project, replacing any existing record and
// resetting the play state. The locator is canonicalized before anything
// is persisted; an unrecognized locator leaves the store untouched.
func (s service) Add(ctx context.Context, params *AddParams) (repository.PlaybackRecord, error) {
	if err := s.checkAccess(ctx, params.ProjectID, params.UserID); err != nil {
		return repository.PlaybackRecord{}, err
	}

	videoID, err := ytlink.ExtractID(params.VideoURL)
	if err != nil {
		return repository.PlaybackRecord{}, err
	}

	record, err := s.playback.PutPlayback(ctx, &repository.PutPlaybackParams{
		ProjectID: params.ProjectID,
		VideoURL:  params.VideoURL,
		VideoID:   videoID,
		Title:     params.Title,
		AddedByID: params.UserID,
	})
	if err != nil {
		return repository.PlaybackRecord{}, err
	}

	s.relay.Broadcast(ctx, params.ProjectID, params.SessionID, relay.EventVideoAdded, nil)

	return record, nil
}

type UpdateStateParams struct {
	ProjectID   string
	UserID      string
	SessionID   string
	IsPlaying   *bool
	CurrentTime *float64
	IsMinimized *bool
}

// UpdateState is the explicit persist path for playback flags. A minimize
// change is additionally relayed so open peers collapse too.
func (s service) UpdateState(ctx context.Context, params *UpdateStateParams) (repository.PlaybackRecord, error) {
	if err := s.checkAccess(ctx, params.ProjectID, params.UserID); err != nil {
		return repository.PlaybackRecord{}, err
	}

	record, err := s.playback.UpdatePlaybackFlags(ctx, &repository.UpdatePlaybackFlagsParams{
		ProjectID:   params.ProjectID,
		IsPlaying:   params.IsPlaying,
		CurrentTime: params.CurrentTime,
		IsMinimized: params.IsMinimized,
	})
	if err != nil {
		return repository.PlaybackRecord{}, err
	}

	if params.IsMinimized != nil {
		s.relay.Broadcast(ctx, params.ProjectID, params.SessionID, relay.EventMinimized,
			relay.MinimizedPayload{IsMinimized: *params.IsMinimized})
	}

	return record, nil
}

type RemoveParams struct {
	ProjectID string
	UserID    string
	SessionID string
}

// Remove deletes the shared video and tells peers to tear down their
// players. Removing when nothing is shared succeeds quietly.
func (s service) Remove(ctx context.Context, params *RemoveParams) error {
	if err := s.checkAccess(ctx, params.ProjectID, params.UserID); err != nil {
		return err
	}

	if err := s.playback.RemovePlayback(ctx, params.ProjectID); err != nil {
		return err
	}

	s.relay.Broadcast(ctx, params.ProjectID, params.SessionID, relay.EventVideoRemoved, nil)

	return nil
}

func (s service) checkAccess(ctx context.Context, projectID, userID string) error {
	ok, err := s.access.HasAccess(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}

	return nil
}
