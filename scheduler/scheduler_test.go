package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAddTicker_Fires(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int32
	s.AddTicker("tick", 20*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&count) >= 3 }, time.Second, 10*time.Millisecond)
}

func TestAddTicker_Replaces(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count1, count2 int32
	s.AddTicker("task", 20*time.Millisecond, func() { atomic.AddInt32(&count1, 1) })
	time.Sleep(30 * time.Millisecond)
	s.AddTicker("task", 20*time.Millisecond, func() { atomic.AddInt32(&count2, 1) })
	time.Sleep(30 * time.Millisecond)

	snap1 := atomic.LoadInt32(&count1)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, snap1, atomic.LoadInt32(&count1), "replaced task must stop")
	assert.Positive(t, atomic.LoadInt32(&count2))
	assert.Equal(t, []string{"task"}, s.ListTickers())
}

func TestRemove(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	var count int32
	s.AddTicker("task", 20*time.Millisecond, func() { atomic.AddInt32(&count, 1) })
	time.Sleep(50 * time.Millisecond)
	s.Remove("task")
	time.Sleep(30 * time.Millisecond)
	snap := atomic.LoadInt32(&count)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, snap, atomic.LoadInt32(&count))
	assert.Empty(t, s.ListTickers())

	s.Remove("nope") // unknown names are ignored
}

func TestStop_StopsAllTasks(t *testing.T) {
	s := New(zap.NewNop())

	var c1, c2 int32
	s.AddTicker("a", 20*time.Millisecond, func() { atomic.AddInt32(&c1, 1) })
	s.AddTicker("b", 20*time.Millisecond, func() { atomic.AddInt32(&c2, 1) })
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	time.Sleep(30 * time.Millisecond)
	snap1, snap2 := atomic.LoadInt32(&c1), atomic.LoadInt32(&c2)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, snap1, atomic.LoadInt32(&c1))
	assert.Equal(t, snap2, atomic.LoadInt32(&c2))

	s.Stop() // idempotent
}

func TestListTickers(t *testing.T) {
	s := New(zap.NewNop())
	defer s.Stop()

	require.Empty(t, s.ListTickers())
	s.AddTicker("audit-purge", time.Hour, func() {})
	s.AddTicker("cache-gc", time.Hour, func() {})
	assert.ElementsMatch(t, []string{"audit-purge", "cache-gc"}, s.ListTickers())
}

func TestTicker_PanicIsLoggedAndTaskKeepsRunning(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := New(zap.New(core))
	defer s.Stop()

	var runs int32
	s.AddTicker("flaky", 20*time.Millisecond, func() {
		atomic.AddInt32(&runs, 1)
		panic("oops")
	})

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, time.Second, 10*time.Millisecond)
	entries := logs.FilterMessage("scheduler task panicked").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "flaky", entries[0].ContextMap()["task"])
}
