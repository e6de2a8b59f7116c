// Package wsrouter dispatches typed JSON messages read from a websocket
// connection to registered handlers.
package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// ErrorFunc is invoked when a handler returns an error or an unknown
// message type is received. It must not write to the connection.
type ErrorFunc func(ctx context.Context, messageType string, err error)

type WSRouter struct {
	routes  map[string]HandlerFunc
	onError ErrorFunc
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

func (r *WSRouter) SetErrorHandler(f ErrorFunc) {
	r.onError = f
}

// ServeConn reads messages from conn until it closes, dispatching each to
// its handler. Messages from one connection are handled sequentially, so a
// sender's events are fanned out in the order they were emitted.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, ok := r.routes[msg.Type]
		if !ok {
			if r.onError != nil {
				r.onError(ctx, msg.Type, ErrUnknownMessageType)
			}
			continue
		}

		if err := handler(ctx, msg.Payload); err != nil {
			if r.onError != nil {
				r.onError(ctx, msg.Type, err)
			}
		}
	}
}
