package systems

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunningJobSystem(t *testing.T, workers int) *JobSystem {
	t.Helper()
	js, err := NewJobSystem(JobSystemConfig{Workers: workers, QueueSize: 8})
	require.NoError(t, err)
	require.NoError(t, js.Initialize())
	t.Cleanup(func() { _ = js.Shutdown() })
	return js
}

// drain pumps Update until every submitted job has been dispatched.
func drain(t *testing.T, js *JobSystem) {
	t.Helper()
	require.Eventually(t, func() bool {
		js.Update()
		return js.Pending() == 0
	}, 2*time.Second, time.Millisecond)
}

func TestNewJobSystemValidatesConfig(t *testing.T) {
	_, err := NewJobSystem(JobSystemConfig{Workers: 0})
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(JobSystemConfig{Workers: 1, QueueSize: -1})
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestJobCallbacksRunOnlyFromUpdate(t *testing.T) {
	js := newRunningJobSystem(t, 2)

	var ran atomic.Bool
	var got interface{}
	_, err := js.Submit(metadata.JobTask{
		Run: func() (interface{}, error) {
			ran.Store(true)
			return 42, nil
		},
		OnComplete: func(result interface{}) { got = result },
	})
	require.NoError(t, err)

	require.Eventually(t, ran.Load, time.Second, time.Millisecond)
	assert.Nil(t, got)
	assert.Equal(t, 1, js.Pending())

	drain(t, js)
	assert.Equal(t, 42, got)
}

func TestJobFailureAndPanic(t *testing.T) {
	js := newRunningJobSystem(t, 1)
	boom := errors.New("boom")

	var failures []error
	onFailure := func(err error) { failures = append(failures, err) }
	_, err := js.Submit(metadata.JobTask{
		Run:       func() (interface{}, error) { return nil, boom },
		OnFailure: onFailure,
	})
	require.NoError(t, err)
	_, err = js.Submit(metadata.JobTask{
		Run:       func() (interface{}, error) { panic("bad input") },
		OnFailure: onFailure,
	})
	require.NoError(t, err)

	drain(t, js)
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[0], boom)
	assert.Contains(t, failures[1].Error(), "bad input")
}

func TestJobSubmitAfterShutdown(t *testing.T) {
	js, err := NewJobSystem(JobSystemConfig{Workers: 1})
	require.NoError(t, err)
	require.NoError(t, js.Initialize())
	require.NoError(t, js.Shutdown())
	require.NoError(t, js.Shutdown())

	_, err = js.Submit(metadata.JobTask{Run: func() (interface{}, error) { return nil, nil }})
	assert.ErrorIs(t, err, ErrJobSystemStopped)
}

func TestJobShutdownDropsUndispatchedResults(t *testing.T) {
	js, err := NewJobSystem(JobSystemConfig{Workers: 1, QueueSize: 4})
	require.NoError(t, err)
	require.NoError(t, js.Initialize())

	called := false
	for i := 0; i < 3; i++ {
		_, err := js.Submit(metadata.JobTask{
			Run:        func() (interface{}, error) { return i, nil },
			OnComplete: func(interface{}) { called = true },
		})
		require.NoError(t, err)
	}
	require.NoError(t, js.Shutdown())
	assert.Zero(t, js.Pending())
	assert.Zero(t, js.Update())
	assert.False(t, called)
}
