package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/mangagraph/explorer"
	"github.com/teranos/mangagraph/graph"
)

// Views and frames are broadcast from the explorer loop while the hub
// registers and drops clients; run with -race.
func TestBroadcastDuringRegistration(t *testing.T) {
	srv := New(testContext(t), testConfig(), nil)
	srv.Start()
	defer srv.Stop()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				srv.OnView(graph.Empty(nil))
				srv.OnFrame(explorer.FrameUpdate{Cursor: "default"})
			}
		}
	}()

	clients := make([]*Client, 0, 20)
	for i := 0; i < 20; i++ {
		c := newClient(srv, nil, "race")
		clients = append(clients, c)
		srv.register <- c
	}
	for _, c := range clients {
		srv.unregister <- c
	}

	close(stop)
	wg.Wait()

	assert.Eventually(t, func() bool { return srv.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.NotNil(t, srv.LastView())
}

func TestUnregisterTwice(t *testing.T) {
	srv := New(testContext(t), testConfig(), nil)
	srv.Start()
	defer srv.Stop()

	c := newClient(srv, nil, "twice")
	srv.register <- c
	srv.unregister <- c
	srv.unregister <- c

	assert.Equal(t, 0, srv.ClientCount())
	assert.False(t, c.queue(map[string]string{"type": MsgPong}))
}
