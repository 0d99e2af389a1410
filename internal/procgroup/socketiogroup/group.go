package socketiogroup

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/specialistvlad/extractgrid/internal/ctxlog"
	"github.com/specialistvlad/extractgrid/internal/procgroup"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	client "github.com/zishang520/socket.io-client-go/socket"
)

// Options configures a socket.io group member.
type Options struct {
	URL                string
	// Namespace scopes the group on the relay. All members of a group must
	// agree on it, and it must be unique per run.
	Namespace          string
	Rank               int
	Size               int
	InsecureSkipVerify bool
	ConnectTimeout     time.Duration
}

type slot struct {
	done  chan struct{}
	value int
}

// Group is one member of a socket.io-backed process group.
type Group struct {
	io        *client.Socket
	namespace string
	rank      int
	size      int

	mu    sync.Mutex
	epoch int
	slots map[int]*slot
}

var _ procgroup.Group = (*Group)(nil)

// Dial connects to a relay and returns a group member.
func Dial(ctx context.Context, opts Options) (*Group, error) {
	if opts.Size < 1 {
		return nil, fmt.Errorf("group size must be positive, got %d", opts.Size)
	}
	if opts.Rank < 0 || opts.Rank >= opts.Size {
		return nil, fmt.Errorf("rank %d out of range for group of size %d", opts.Rank, opts.Size)
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("a namespace is required")
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 15 * time.Second
	}
	logger := ctxlog.FromContext(ctx).With("component", "socketio_group", "url", opts.URL, "namespace", opts.Namespace, "rank", opts.Rank)

	parsedURL, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	sopts := client.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		sopts.SetPath(parsedURL.Path)
	}
	if opts.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		sopts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	sopts.SetTransports(types.NewSet(transports.WebSocket))
	sopts.SetAuth(map[string]any{namespaceKey: opts.Namespace})

	g := &Group{namespace: opts.Namespace, rank: opts.Rank, size: opts.Size, slots: make(map[int]*slot)}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := client.NewManager(baseURL, sopts)
	io := manager.Socket("/", sopts)
	g.io = io

	io.On(types.EventName(broadcastEvent), func(args ...any) {
		if len(args) == 0 {
			return
		}
		namespace, epoch, value, err := decodePayload(args[0])
		if err != nil {
			logger.Warn("Dropping malformed broadcast", "error", err)
			return
		}
		if namespace != g.namespace {
			logger.Warn("Dropping broadcast of another namespace", "broadcast_namespace", namespace, "epoch", epoch)
			return
		}
		g.deliver(epoch, value)
	})

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Connected to relay", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := fmt.Errorf("connect error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return g, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(opts.ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", opts.ConnectTimeout)
	}
}

// LocalRank implements procgroup.Group.
func (g *Group) LocalRank() int { return g.rank }

// Size implements procgroup.Group.
func (g *Group) Size() int { return g.size }

// Broadcast implements procgroup.Group.
func (g *Group) Broadcast(ctx context.Context, value *int, origin int) error {
	if origin < 0 || origin >= g.size {
		return fmt.Errorf("broadcast origin %d out of range for group of size %d", origin, g.size)
	}
	g.mu.Lock()
	g.epoch++
	epoch := g.epoch
	var s *slot
	if g.rank != origin {
		s = g.slotLocked(epoch)
	}
	g.mu.Unlock()

	if g.rank == origin {
		if g.size == 1 {
			return nil
		}
		payload := map[string]any{namespaceKey: g.namespace, "epoch": epoch, "origin": origin, "value": *value}
		if err := g.io.Emit(broadcastEvent, payload); err != nil {
			return fmt.Errorf("failed to publish broadcast %d: %w", epoch, err)
		}
		return nil
	}

	select {
	case <-s.done:
		*value = s.value
		g.mu.Lock()
		delete(g.slots, epoch)
		g.mu.Unlock()
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for broadcast %d: %w", epoch, ctx.Err())
	}
}

// Close disconnects from the relay.
func (g *Group) Close() error {
	g.io.Disconnect()
	return nil
}

func (g *Group) slotLocked(epoch int) *slot {
	s, ok := g.slots[epoch]
	if !ok {
		s = &slot{done: make(chan struct{})}
		g.slots[epoch] = s
	}
	return s
}

// deliver fills the slot for epoch once. Epochs this member has already
// passed (its own broadcasts, replays) are ignored.
func (g *Group) deliver(epoch, value int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, waiting := g.slots[epoch]; !waiting && epoch <= g.epoch {
		return
	}
	s := g.slotLocked(epoch)
	select {
	case <-s.done:
	default:
		s.value = value
		close(s.done)
	}
}

func decodePayload(raw any) (namespace string, epoch, value int, err error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return "", 0, 0, fmt.Errorf("unexpected payload type %T", raw)
	}
	if namespace, ok = m[namespaceKey].(string); !ok {
		return "", 0, 0, fmt.Errorf("namespace: unexpected type %T", m[namespaceKey])
	}
	if epoch, err = toInt(m["epoch"]); err != nil {
		return "", 0, 0, fmt.Errorf("epoch: %w", err)
	}
	if value, err = toInt(m["value"]); err != nil {
		return "", 0, 0, fmt.Errorf("value: %w", err)
	}
	return namespace, epoch, value, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("unexpected number type %T", v)
	}
}
