package worker

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

// ErrDispatcherBusy reports that the intake queue is saturated and the job
// was not accepted.
var ErrDispatcherBusy = errors.New("dispatcher queue is full")

// Config sizes the dispatcher and its worker pool.
type Config struct {
	MinWorkers        int
	MaxWorkers        int
	QueueSize         int
	WorkerIdleTimeout time.Duration
}

// Dispatcher fans submitted jobs out to the pool with round-robin fairness
// across clients: each client gets a FIFO queue, and a ready list rotates
// between clients so one flooding IP cannot starve the rest.
type Dispatcher struct {
	pool     *turnPool
	jobQueue chan Job

	mu        sync.Mutex
	queues    map[string]*clientQueue
	ready     *list.List // rotation of client IDs with pending jobs
	positions map[string]*list.Element
}

type clientQueue struct {
	jobs     []Job
	enqueued bool
}

func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	d := &Dispatcher{
		pool:      newTurnPool(cfg.MinWorkers, cfg.MaxWorkers, cfg.WorkerIdleTimeout),
		jobQueue:  make(chan Job, cfg.QueueSize),
		queues:    make(map[string]*clientQueue),
		ready:     list.New(),
		positions: make(map[string]*list.Element),
	}
	go d.run()
	return d
}

// Submit hands a job to the dispatcher without blocking the caller.
func (d *Dispatcher) Submit(job Job) error {
	select {
	case d.jobQueue <- job:
		return nil
	default:
		return ErrDispatcherBusy
	}
}

func (d *Dispatcher) run() {
	for {
		if !d.dispatchOne() {
			// nothing pending, block until a job arrives
			job := <-d.jobQueue
			d.enqueueJob(job)
			continue
		}
		select {
		case job := <-d.jobQueue:
			d.enqueueJob(job)
		default:
		}
	}
}

func (d *Dispatcher) enqueueJob(job Job) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q := d.queues[job.ClientID]
	if q == nil {
		q = &clientQueue{}
		d.queues[job.ClientID] = q
	}
	q.jobs = append(q.jobs, job)
	if q.enqueued {
		return
	}
	q.enqueued = true
	d.positions[job.ClientID] = d.ready.PushBack(job.ClientID)
}

// dispatchOne pops the next job from the client at the front of the
// rotation and hands it to a pool worker.
func (d *Dispatcher) dispatchOne() bool {
	d.mu.Lock()
	elem := d.ready.Front()
	if elem == nil {
		d.mu.Unlock()
		return false
	}
	clientID := elem.Value.(string)
	q := d.queues[clientID]
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	if len(q.jobs) == 0 {
		q.enqueued = false
		d.ready.Remove(elem)
		delete(d.positions, clientID)
		delete(d.queues, clientID)
	} else {
		d.ready.MoveToBack(elem)
	}
	d.mu.Unlock()

	workerChan := d.pool.acquire()
	workerChan <- job
	return true
}
