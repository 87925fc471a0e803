package tasks

import (
	"bytes"
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWorkerCount(t *testing.T) {
	p := New(0)
	defer p.Stop()
	assert.Equal(t, runtime.NumCPU(), p.Workers())
}

func TestRunsAllJobs(t *testing.T) {
	p := New(4)

	var wg sync.WaitGroup
	var ran atomic.Int64
	for range 1000 {
		wg.Add(1)
		p.Enqueue(func() {
			defer wg.Done()
			ran.Add(1)
		})
	}
	wg.Wait()
	p.Stop()
	assert.Equal(t, int64(1000), ran.Load())
}

func TestSingleWorkerIsFIFO(t *testing.T) {
	p := New(1)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		p.Enqueue(func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	wg.Wait()
	p.Stop()

	require.Len(t, order, 50)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestStopDiscardsPendingAndWaitsForRunning(t *testing.T) {
	var buf bytes.Buffer
	p := New(1, WithLogger(log.New(&buf, "", 0)))

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	p.Enqueue(func() {
		close(started)
		<-release
		finished.Store(true)
	})
	<-started

	var extra atomic.Int64
	for range 10 {
		p.Enqueue(func() { extra.Add(1) })
	}
	assert.Equal(t, 10, p.Pending())

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Stop returned while a job was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-done
	assert.True(t, finished.Load())
	assert.Zero(t, extra.Load())
	assert.Zero(t, p.Pending())
	assert.Contains(t, buf.String(), "10 pending jobs discarded")

	p.Stop()
}

func TestEnqueueAfterStopPanics(t *testing.T) {
	p := New(2)
	p.Stop()
	assert.Panics(t, func() { p.Enqueue(func() {}) })
}

func TestPanickingJobKeepsWorker(t *testing.T) {
	var buf bytes.Buffer
	p := New(1, WithLogger(log.New(&buf, "", 0)))
	defer p.Stop()

	p.Enqueue(func() { panic("boom") })

	done := make(chan struct{})
	p.Enqueue(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a panicking job")
	}
	assert.Contains(t, buf.String(), "boom")
}
