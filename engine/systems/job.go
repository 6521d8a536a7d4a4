package systems

import (
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

var ErrNoWorkers = errors.New("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = errors.New("attempting to create worker pool with a negative channel size")
var ErrJobSystemStopped = errors.New("job system is not running")

type JobSystemConfig struct {
	Workers   int
	QueueSize int
}

type queuedJob struct {
	id   core.Identifier
	task metadata.JobTask
}

type jobResult struct {
	id     core.Identifier
	task   metadata.JobTask
	result interface{}
	err    error
}

/**
 * @brief Runs jobs on a fixed pool of worker goroutines. Callbacks are
 * queued and only invoked from Update on the main thread.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan queuedJob
	results    chan jobResult
	wg         sync.WaitGroup

	// Submitted jobs whose callbacks have not run yet.
	pending atomic.Int64

	mu      sync.RWMutex
	running bool
}

func NewJobSystem(config JobSystemConfig) (*JobSystem, error) {
	if config.Workers <= 0 {
		return nil, ErrNoWorkers
	}
	if config.QueueSize < 0 {
		return nil, ErrNegativeChannelSize
	}
	return &JobSystem{
		numWorkers: config.Workers,
		jobQueue:   make(chan queuedJob, config.QueueSize),
		results:    make(chan jobResult, metadata.MAX_JOB_RESULTS),
	}, nil
}

func (js *JobSystem) Initialize() error {
	js.mu.Lock()
	defer js.mu.Unlock()
	if js.running {
		return nil
	}
	js.running = true
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go js.worker()
	}
	core.LogInfo("Job system started with %d workers.", js.numWorkers)
	return nil
}

func (js *JobSystem) worker() {
	defer js.wg.Done()
	for job := range js.jobQueue {
		result, err := js.run(job)
		js.results <- jobResult{id: job.id, task: job.task, result: result, err: err}
	}
}

func (js *JobSystem) run(job queuedJob) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("job %s panicked: %v", job.id, r)
		}
	}()
	return job.task.Run()
}

/**
 * @brief Shuts the job system down. Queued jobs still run; callbacks that
 * have not been dispatched by Update are dropped.
 */
func (js *JobSystem) Shutdown() error {
	js.mu.Lock()
	if !js.running {
		js.mu.Unlock()
		return nil
	}
	js.running = false
	close(js.jobQueue)
	js.mu.Unlock()

	done := make(chan struct{})
	go func() {
		js.wg.Wait()
		close(done)
	}()
	// Workers may be blocked on a full result queue.
	for {
		select {
		case <-js.results:
			js.pending.Add(-1)
		case <-done:
			dropped := len(js.results)
			for len(js.results) > 0 {
				<-js.results
				js.pending.Add(-1)
			}
			if dropped > 0 {
				core.LogDebug("Job system dropped %d undispatched results.", dropped)
			}
			return nil
		}
	}
}

/**
 * @brief Dispatches the callbacks of finished jobs. Must be called once an
 * update cycle from the main thread. Returns the number dispatched.
 */
func (js *JobSystem) Update() int {
	dispatched := 0
	for {
		select {
		case res := <-js.results:
			js.pending.Add(-1)
			dispatched++
			if res.err != nil {
				core.LogError("job %s failed: %s", res.id, res.err)
				if res.task.OnFailure != nil {
					res.task.OnFailure(res.err)
				}
				continue
			}
			if res.task.OnComplete != nil {
				res.task.OnComplete(res.result)
			}
		default:
			return dispatched
		}
	}
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while
 * the queue is full.
 */
func (js *JobSystem) Submit(task metadata.JobTask) (core.Identifier, error) {
	if task.Run == nil {
		return core.InvalidID, errors.New("job has no Run function")
	}
	js.mu.RLock()
	defer js.mu.RUnlock()
	if !js.running {
		return core.InvalidID, ErrJobSystemStopped
	}
	id := core.NewIdentifier()
	js.pending.Add(1)
	js.jobQueue <- queuedJob{id: id, task: task}
	return id, nil
}

// Pending is the number of submitted jobs whose callbacks have not been dispatched.
func (js *JobSystem) Pending() int {
	return int(js.pending.Load())
}
