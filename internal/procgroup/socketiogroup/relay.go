// Package socketiogroup implements procgroup.Group over socket.io. One process
// hosts a Relay; every member (including the relay's host, if it takes part)
// connects to it as a client.
package socketiogroup

import (
	"context"
	"net/http"
	"sync"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	server "github.com/zishang520/socket.io/v2/socket"
)

const (
	broadcastEvent = "broadcast"
	namespaceKey   = "namespace"
)

// Relay fans every broadcast out to the members of the same namespace. Members
// that connect late are replayed their namespace's history, so a fast origin
// can never outrun a slow receiver. A relay outlives runs; each run joins
// with its own namespace and never sees another run's broadcasts.
type Relay struct {
	io *server.Server

	mu      sync.Mutex
	history map[string][]any
}

// NewRelay creates a relay that is not yet serving.
func NewRelay(ctx context.Context) *Relay {
	logger := ctxlog.FromContext(ctx).With("component", "socketio_relay")
	r := &Relay{io: server.NewServer(nil, nil), history: make(map[string][]any)}

	r.io.On("connection", func(clients ...any) {
		client := clients[0].(*server.Socket)
		namespace := handshakeNamespace(client.Handshake())
		if namespace == "" {
			logger.Warn("Rejecting member without a namespace.", "sid", client.Id())
			client.Disconnect(true)
			return
		}
		logger.Debug("Member connected.", "sid", client.Id(), "namespace", namespace)
		room := server.Room(namespace)

		// Joining and replaying under the lock keeps a broadcast from being
		// both missed live and absent from the replay.
		r.mu.Lock()
		client.Join(room)
		replay := append([]any(nil), r.history[namespace]...)
		r.mu.Unlock()
		for _, payload := range replay {
			client.Emit(broadcastEvent, payload)
		}

		client.On(broadcastEvent, func(args ...any) {
			if len(args) == 0 {
				return
			}
			r.mu.Lock()
			r.history[namespace] = append(r.history[namespace], args[0])
			r.mu.Unlock()
			if err := r.io.To(room).Emit(broadcastEvent, args[0]); err != nil {
				logger.Warn("Failed to relay broadcast.", "namespace", namespace, "error", err)
			}
		})
	})
	return r
}

// Handler returns the http.Handler serving the socket.io endpoint.
func (r *Relay) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", r.io.ServeHandler(nil))
	return mux
}

// Close disconnects every member.
func (r *Relay) Close() {
	r.io.Close(nil)
}

func handshakeNamespace(h *server.Handshake) string {
	if h == nil {
		return ""
	}
	auth, ok := h.Auth.(map[string]any)
	if !ok {
		return ""
	}
	namespace, _ := auth[namespaceKey].(string)
	return namespace
}
