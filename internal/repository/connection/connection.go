package connection

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrNotFound      = errors.New("connection not found")
	ErrAlreadyExists = errors.New("connection already exists")
)

// Peer is a single realtime connection able to receive server pushes.
type Peer interface {
	SendJSON(v any) error
	Close() error
}

// WSPeer wraps a gorilla connection, serializing writes so the relay and
// the read-loop replies never interleave frames.
type WSPeer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewWSPeer(conn *websocket.Conn) *WSPeer {
	return &WSPeer{conn: conn}
}

func (p *WSPeer) SendJSON(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conn.WriteJSON(v)
}

func (p *WSPeer) Close() error {
	return p.conn.Close()
}
