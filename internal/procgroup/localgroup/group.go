// Package localgroup simulates a process group inside one process. Each
// member is meant to be driven by its own goroutine, standing in for a
// separate process.
package localgroup

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/extractgrid/internal/procgroup"
)

// round is the rendezvous state of one collective call. Members hold on to
// it after joining, so the hub forgets it once every member has joined.
type round struct {
	origin  int
	value   int
	ready   chan struct{}
	arrived int
}

type hub struct {
	mu     sync.Mutex
	size   int
	rounds map[int]*round // Key: epoch
}

// Member is one simulated process.
type Member struct {
	hub   *hub
	rank  int
	epoch int
}

var _ procgroup.Group = (*Member)(nil)

// New creates a group of size members, indexed by rank.
func New(size int) []*Member {
	if size < 1 {
		size = 1
	}
	h := &hub{size: size, rounds: make(map[int]*round)}
	members := make([]*Member, size)
	for rank := range members {
		members[rank] = &Member{hub: h, rank: rank}
	}
	return members
}

// LocalRank implements procgroup.Group.
func (m *Member) LocalRank() int { return m.rank }

// Size implements procgroup.Group.
func (m *Member) Size() int { return m.hub.size }

// Broadcast implements procgroup.Group.
func (m *Member) Broadcast(ctx context.Context, value *int, origin int) error {
	if origin < 0 || origin >= m.hub.size {
		return fmt.Errorf("broadcast origin %d out of range for group of size %d", origin, m.hub.size)
	}
	m.epoch++
	r, err := m.hub.join(m.epoch, origin)
	if err != nil {
		return err
	}

	if m.rank == origin {
		r.value = *value
		close(r.ready)
	} else {
		select {
		case <-r.ready:
			*value = r.value
		case <-ctx.Done():
			return fmt.Errorf("broadcast %d interrupted on rank %d: %w", m.epoch, m.rank, ctx.Err())
		}
	}
	return nil
}

func (h *hub) join(epoch, origin int) (*round, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rounds[epoch]
	if !ok {
		r = &round{origin: origin, ready: make(chan struct{})}
		h.rounds[epoch] = r
	}
	r.arrived++
	if r.arrived == h.size {
		delete(h.rounds, epoch)
	}
	if r.origin != origin {
		return nil, fmt.Errorf("broadcast %d: members disagree on origin (%d vs %d)", epoch, r.origin, origin)
	}
	return r, nil
}
