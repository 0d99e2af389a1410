package socketiogroup

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRelay(t *testing.T) string {
	t.Helper()
	relay := NewRelay(context.Background())
	srv := httptest.NewServer(relay.Handler())
	t.Cleanup(func() {
		relay.Close()
		srv.Close()
	})
	return srv.URL
}

func TestBroadcast_ThroughRelay(t *testing.T) {
	url := startRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	const size = 3
	members := make([]*Group, size)
	for rank := range members {
		g, err := Dial(ctx, Options{URL: url, Namespace: "run-1", Rank: rank, Size: size})
		require.NoError(t, err)
		t.Cleanup(func() { _ = g.Close() })
		members[rank] = g
	}

	for round := 1; round <= 2; round++ {
		results := make([]int, size)
		var wg sync.WaitGroup
		for rank, g := range members {
			wg.Add(1)
			go func() {
				defer wg.Done()
				value := 0
				if rank == 0 {
					value = round
				}
				assert.NoError(t, g.Broadcast(ctx, &value, 0))
				results[rank] = value
			}()
		}
		wg.Wait()
		assert.Equal(t, []int{round, round, round}, results, "round %d", round)
	}
}

func TestBroadcast_TwoRunsOnOneRelay(t *testing.T) {
	url := startRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	dial := func(namespace string, rank int) *Group {
		g, err := Dial(ctx, Options{URL: url, Namespace: namespace, Rank: rank, Size: 2})
		require.NoError(t, err)
		t.Cleanup(func() { _ = g.Close() })
		return g
	}

	// The first run leaves epoch 1 in the relay's history.
	first0, first1 := dial("run-1", 0), dial("run-1", 1)
	received := make(chan int, 1)
	go func() {
		value := 0
		assert.NoError(t, first1.Broadcast(ctx, &value, 0))
		received <- value
	}()
	value := 1
	require.NoError(t, first0.Broadcast(ctx, &value, 0))
	require.Equal(t, 1, <-received)

	// A member of the second run must wait for its own coordinator.
	second1 := dial("run-2", 1)
	go func() {
		value := 0
		assert.NoError(t, second1.Broadcast(ctx, &value, 0))
		received <- value
	}()
	select {
	case v := <-received:
		t.Fatalf("second run adopted %d before its coordinator broadcast", v)
	case <-time.After(500 * time.Millisecond):
	}

	second0 := dial("run-2", 0)
	value = 7
	require.NoError(t, second0.Broadcast(ctx, &value, 0))
	select {
	case v := <-received:
		assert.Equal(t, 7, v)
	case <-ctx.Done():
		t.Fatal("second run never received its broadcast")
	}
}

func TestDial_Validation(t *testing.T) {
	_, err := Dial(context.Background(), Options{URL: "http://localhost:1", Namespace: "x", Rank: 2, Size: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = Dial(context.Background(), Options{URL: "http://localhost:1", Namespace: "x", Size: 0})
	require.Error(t, err)

	_, err = Dial(context.Background(), Options{URL: "http://localhost:1", Size: 1})
	assert.ErrorContains(t, err, "a namespace is required")
}

func TestDeliver_IgnoresPassedEpochs(t *testing.T) {
	g := &Group{namespace: "run-1", rank: 1, size: 2, slots: make(map[int]*slot)}

	g.deliver(1, 42)
	value := 0
	require.NoError(t, g.Broadcast(context.Background(), &value, 0))
	assert.Equal(t, 42, value)

	// A replay of epoch 1 must not leave a stale slot behind.
	g.deliver(1, 42)
	assert.Empty(t, g.slots)
}

func TestDecodePayload(t *testing.T) {
	namespace, epoch, value, err := decodePayload(map[string]any{"namespace": "run-1", "epoch": float64(3), "origin": float64(0), "value": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, "run-1", namespace)
	assert.Equal(t, 3, epoch)
	assert.Equal(t, 1, value)

	_, _, _, err = decodePayload("nope")
	require.Error(t, err)

	_, _, _, err = decodePayload(map[string]any{"epoch": float64(3), "value": float64(1)})
	assert.ErrorContains(t, err, "namespace")

	_, _, _, err = decodePayload(map[string]any{"namespace": "run-1", "epoch": "x", "value": 1})
	require.Error(t, err)
}
