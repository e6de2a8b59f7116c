package relay_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workorg/server/internal/relay"
	conninmemory "github.com/workorg/server/internal/repository/connection/inmemory"
	roominmemory "github.com/workorg/server/internal/repository/room/inmemory"
)

type fakePeer struct {
	msgs []relay.Message
	fail bool
}

func (p *fakePeer) SendJSON(v any) error {
	if p.fail {
		return errors.New("connection reset")
	}
	msg, ok := v.(*relay.Message)
	if !ok {
		return errors.New("unexpected message type")
	}
	p.msgs = append(p.msgs, *msg)

	return nil
}

func (p *fakePeer) Close() error { return nil }

func TestBroadcastExcludesSender(t *testing.T) {
	registry := roominmemory.NewRegistry(slog.Default())
	conns := conninmemory.NewRepo(slog.Default())
	r := relay.New(registry, conns, slog.Default())

	sender := &fakePeer{}
	peer := &fakePeer{}
	require.NoError(t, conns.Add("s1", sender))
	require.NoError(t, conns.Add("s2", peer))
	registry.Join("s1", "p1")
	registry.Join("s2", "p1")

	r.Broadcast(context.Background(), "p1", "s1", relay.EventPlay, relay.PlaybackPayload{CurrentTime: 42})

	assert.Empty(t, sender.msgs)
	require.Len(t, peer.msgs, 1)
	assert.Equal(t, relay.EventPlay, peer.msgs[0].Type)
}

func TestBroadcastScopedToRoom(t *testing.T) {
	registry := roominmemory.NewRegistry(slog.Default())
	conns := conninmemory.NewRepo(slog.Default())
	r := relay.New(registry, conns, slog.Default())

	inRoom := &fakePeer{}
	outsider := &fakePeer{}
	require.NoError(t, conns.Add("s1", inRoom))
	require.NoError(t, conns.Add("s2", outsider))
	registry.Join("s1", "p1")
	registry.Join("s2", "p2")

	r.Broadcast(context.Background(), "p1", "", relay.EventPause, relay.PlaybackPayload{CurrentTime: 3})

	require.Len(t, inRoom.msgs, 1)
	assert.Empty(t, outsider.msgs)
}

func TestBroadcastSkipsUnreachablePeers(t *testing.T) {
	registry := roominmemory.NewRegistry(slog.Default())
	conns := conninmemory.NewRepo(slog.Default())
	r := relay.New(registry, conns, slog.Default())

	dead := &fakePeer{fail: true}
	alive := &fakePeer{}
	require.NoError(t, conns.Add("s1", dead))
	require.NoError(t, conns.Add("s2", alive))
	registry.Join("s1", "p1")
	registry.Join("s2", "p1")
	// s3 joined but its connection is already gone
	registry.Join("s3", "p1")

	r.Broadcast(context.Background(), "p1", "", relay.EventSeek, relay.PlaybackPayload{CurrentTime: 17})

	require.Len(t, alive.msgs, 1)
	assert.Equal(t, relay.EventSeek, alive.msgs[0].Type)
}

func TestBroadcastEmptyRoom(t *testing.T) {
	registry := roominmemory.NewRegistry(slog.Default())
	conns := conninmemory.NewRepo(slog.Default())
	r := relay.New(registry, conns, slog.Default())

	// nobody ever joined p1
	r.Broadcast(context.Background(), "p1", "s1", relay.EventVideoAdded, nil)
}
