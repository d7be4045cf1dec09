package deploy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDeploysOnlyOnChange(t *testing.T) {
	stacks := &fakeStacks{}
	environ := []string{"GRIP_IMAGE=img:1", "ANTHROPIC_API_KEY=k"}
	w := &Watcher{Runner: newPipeline(stacks, environ...)}

	assert.True(t, w.Tick(context.Background()))
	assert.False(t, w.Tick(context.Background()))
	assert.Len(t, stacks.updates, 1)

	// a new image tag changes the rendered content
	environ[0] = "GRIP_IMAGE=img:2"
	assert.True(t, w.Tick(context.Background()))
	assert.Len(t, stacks.updates, 2)
	assert.Contains(t, stacks.current, "image: img:2")
}

func TestWatcherSkipsOverlappingRuns(t *testing.T) {
	stacks := &fakeStacks{}
	w := &Watcher{Runner: newPipeline(stacks, "GRIP_IMAGE=img:1", "ANTHROPIC_API_KEY=k")}

	w.running.Lock()
	assert.False(t, w.Tick(context.Background()))
	w.running.Unlock()

	assert.Empty(t, stacks.updates)
}

func TestWatcherKeepsHashOnFailure(t *testing.T) {
	stacks := &fakeStacks{updateErr: assert.AnError}
	w := &Watcher{Runner: newPipeline(stacks, "GRIP_IMAGE=img:1", "ANTHROPIC_API_KEY=k")}

	assert.False(t, w.Tick(context.Background()))
	assert.Empty(t, w.lastHash)

	stacks.updateErr = nil
	assert.True(t, w.Tick(context.Background()))
	assert.NotEmpty(t, w.lastHash)
}

func TestWatcherStartStop(t *testing.T) {
	stacks := &fakeStacks{}
	w := &Watcher{
		Runner:   newPipeline(stacks, "GRIP_IMAGE=img:1", "ANTHROPIC_API_KEY=k"),
		Interval: 10 * time.Millisecond,
	}

	require.NoError(t, w.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return stacks.updateCount() == 1
	}, 2*time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	// unchanged content is never redeployed
	assert.Equal(t, 1, stacks.updateCount())
}
