package explorer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/mangagraph/graph"
)

type recordingListener struct {
	mu     sync.Mutex
	views  []*graph.Graph
	frames int
}

func (r *recordingListener) OnView(view *graph.Graph) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
}

func (r *recordingListener) OnFrame(FrameUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames++
}

func (r *recordingListener) viewCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *recordingListener) lastView() *graph.Graph {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views[len(r.views)-1]
}

func (r *recordingListener) frameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := NewLoop(context.Background(), loadedExplorer(t), 5*time.Millisecond)
	l.Start()
	t.Cleanup(l.Stop)
	return l
}

func TestLoop_SubscribeDeliversCurrentView(t *testing.T) {
	l := startLoop(t)
	rec := &recordingListener{}

	unsubscribe := l.Subscribe(rec)
	defer unsubscribe()

	require.Equal(t, 1, rec.viewCount())
	assert.Len(t, rec.lastView().Nodes, 3)
}

func TestLoop_DoPublishesViewBeforeReturning(t *testing.T) {
	l := startLoop(t)
	rec := &recordingListener{}
	defer l.Subscribe(rec)()

	require.NoError(t, l.Do(context.Background(), func(x *Explorer) { x.Toggle("X") }))

	require.Equal(t, 2, rec.viewCount())
	assert.Equal(t, []string{"X"}, rec.lastView().Meta.Stats.Selected)
	assert.Equal(t, []string{"X"}, l.LastView().Meta.Stats.Selected)
}

func TestLoop_NoViewWithoutResolve(t *testing.T) {
	l := startLoop(t)
	rec := &recordingListener{}
	defer l.Subscribe(rec)()

	require.NoError(t, l.Do(context.Background(), func(x *Explorer) { x.Toggle("ghost") }))
	assert.Equal(t, 1, rec.viewCount())
}

func TestLoop_PublishesFrames(t *testing.T) {
	l := startLoop(t)
	rec := &recordingListener{}
	defer l.Subscribe(rec)()

	require.Eventually(t, func() bool { return rec.frameCount() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestLoop_Unsubscribe(t *testing.T) {
	l := startLoop(t)
	rec := &recordingListener{}
	l.Subscribe(rec)()

	require.NoError(t, l.Do(context.Background(), func(x *Explorer) { x.Toggle("X") }))
	assert.Equal(t, 1, rec.viewCount())
}

func TestLoop_RecoversPanics(t *testing.T) {
	l := startLoop(t)

	require.NoError(t, l.Do(context.Background(), func(*Explorer) { panic("boom") }))
	require.NoError(t, l.Do(context.Background(), func(x *Explorer) { x.Toggle("Y") }))
	assert.Equal(t, []string{"Y"}, l.LastView().Meta.Stats.Selected)
}

func TestLoop_DoAfterStop(t *testing.T) {
	l := NewLoop(context.Background(), loadedExplorer(t), time.Millisecond)
	l.Start()
	l.Stop()

	err := l.Do(context.Background(), func(x *Explorer) { x.Toggle("X") })
	assert.ErrorIs(t, err, ErrLoopStopped)
}
