package video

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workorg/server/internal/relay"
	"github.com/workorg/server/internal/repository"
)

type fakePlaybackRepo struct {
	record *repository.PlaybackRecord
	puts   int
}

func (r *fakePlaybackRepo) GetPlayback(ctx context.Context, projectID string) (repository.PlaybackRecord, error) {
	if r.record == nil || r.record.ProjectID != projectID {
		return repository.PlaybackRecord{}, repository.ErrPlaybackNotFound
	}
	return *r.record, nil
}

func (r *fakePlaybackRepo) PutPlayback(ctx context.Context, params *repository.PutPlaybackParams) (repository.PlaybackRecord, error) {
	r.puts++
	r.record = &repository.PlaybackRecord{
		ProjectID: params.ProjectID,
		VideoURL:  params.VideoURL,
		VideoID:   params.VideoID,
		Title:     params.Title,
		AddedByID: params.AddedByID,
	}
	return *r.record, nil
}

func (r *fakePlaybackRepo) UpdatePlaybackFlags(ctx context.Context, params *repository.UpdatePlaybackFlagsParams) (repository.PlaybackRecord, error) {
	if r.record == nil || r.record.ProjectID != params.ProjectID {
		return repository.PlaybackRecord{}, repository.ErrPlaybackNotFound
	}
	if params.IsPlaying != nil {
		r.record.IsPlaying = *params.IsPlaying
	}
	if params.CurrentTime != nil {
		r.record.CurrentTime = *params.CurrentTime
	}
	if params.IsMinimized != nil {
		r.record.IsMinimized = *params.IsMinimized
	}
	return *r.record, nil
}

func (r *fakePlaybackRepo) RemovePlayback(ctx context.Context, projectID string) error {
	r.record = nil
	return nil
}

type fakeAccess struct {
	allowed map[string]bool
	err     error
}

func (a fakeAccess) HasAccess(ctx context.Context, projectID, userID string) (bool, error) {
	if a.err != nil {
		return false, a.err
	}
	return a.allowed[projectID+"/"+userID], nil
}

type broadcastCall struct {
	projectID string
	senderID  string
	event     string
	payload   any
}

type fakeRelay struct {
	calls []broadcastCall
}

func (r *fakeRelay) Broadcast(ctx context.Context, projectID, senderID, event string, payload any) {
	r.calls = append(r.calls, broadcastCall{projectID: projectID, senderID: senderID, event: event, payload: payload})
}

func newTestService() (*service, *fakePlaybackRepo, *fakeRelay) {
	repo := &fakePlaybackRepo{}
	rly := &fakeRelay{}
	access := fakeAccess{allowed: map[string]bool{"p1/u1": true}}
	svc := NewService(repo, access, rly, slog.Default())

	return svc, repo, rly
}

func TestAddRejectsInvalidReference(t *testing.T) {
	svc, repo, rly := newTestService()

	_, err := svc.Add(context.Background(), &AddParams{
		ProjectID: "p1",
		UserID:    "u1",
		VideoURL:  "https://example.com/not-a-video",
	})
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Zero(t, repo.puts, "store must stay untouched on a bad locator")
	assert.Empty(t, rly.calls)
}

func TestAddCanonicalizesAndNotifies(t *testing.T) {
	svc, repo, rly := newTestService()

	record, err := svc.Add(context.Background(), &AddParams{
		ProjectID: "p1",
		UserID:    "u1",
		SessionID: "sess-1",
		VideoURL:  "https://youtu.be/abc123",
		Title:     "Demo",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc123", record.VideoID)
	assert.Equal(t, 1, repo.puts)

	require.Len(t, rly.calls, 1)
	assert.Equal(t, relay.EventVideoAdded, rly.calls[0].event)
	assert.Equal(t, "sess-1", rly.calls[0].senderID, "the sharer's own tab is excluded from the notification")
}

func TestAddPermissionDenied(t *testing.T) {
	svc, repo, _ := newTestService()

	_, err := svc.Add(context.Background(), &AddParams{
		ProjectID: "p1",
		UserID:    "outsider",
		VideoURL:  "https://youtu.be/abc123",
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, repo.puts)
}

func TestGetAbsentIsNotAnError(t *testing.T) {
	svc, _, _ := newTestService()

	record, err := svc.Get(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestUpdateStateRelaysMinimizeOnly(t *testing.T) {
	svc, _, rly := newTestService()

	_, err := svc.Add(context.Background(), &AddParams{
		ProjectID: "p1",
		UserID:    "u1",
		VideoURL:  "https://youtu.be/abc123",
	})
	require.NoError(t, err)
	rly.calls = nil

	playing := true
	_, err = svc.UpdateState(context.Background(), &UpdateStateParams{
		ProjectID: "p1",
		UserID:    "u1",
		IsPlaying: &playing,
	})
	require.NoError(t, err)
	assert.Empty(t, rly.calls, "plain flag persistence is not relayed")

	minimized := true
	record, err := svc.UpdateState(context.Background(), &UpdateStateParams{
		ProjectID:   "p1",
		UserID:      "u1",
		SessionID:   "sess-1",
		IsMinimized: &minimized,
	})
	require.NoError(t, err)
	assert.True(t, record.IsMinimized)

	require.Len(t, rly.calls, 1)
	assert.Equal(t, relay.EventMinimized, rly.calls[0].event)
	assert.Equal(t, relay.MinimizedPayload{IsMinimized: true}, rly.calls[0].payload)
}

func TestRemoveIdempotentAndNotifies(t *testing.T) {
	svc, _, rly := newTestService()

	_, err := svc.Add(context.Background(), &AddParams{
		ProjectID: "p1",
		UserID:    "u1",
		VideoURL:  "https://youtu.be/abc123",
	})
	require.NoError(t, err)
	rly.calls = nil

	require.NoError(t, svc.Remove(context.Background(), &RemoveParams{ProjectID: "p1", UserID: "u1"}))
	require.NoError(t, svc.Remove(context.Background(), &RemoveParams{ProjectID: "p1", UserID: "u1"}))

	require.Len(t, rly.calls, 2)
	assert.Equal(t, relay.EventVideoRemoved, rly.calls[0].event)
}

func TestAccessCheckFailurePropagates(t *testing.T) {
	repo := &fakePlaybackRepo{}
	rly := &fakeRelay{}
	boom := errors.New("db down")
	svc := NewService(repo, fakeAccess{err: boom}, rly, slog.Default())

	_, err := svc.Get(context.Background(), "p1", "u1")
	assert.ErrorIs(t, err, boom)
}
