package worker

// Job is one unit of work bound to a client identifier. Jobs for the same
// client run in submission order; clients are served round-robin.
type Job struct {
	ClientID string
	Run      func()

	stop bool
}

type Worker struct {
	pool       *turnPool
	jobChannel chan Job
}

func NewWorker(pool *turnPool) *Worker {
	return &Worker{
		pool:       pool,
		jobChannel: make(chan Job),
	}
}

func (w *Worker) Start() {
	go func() {
		for {
			w.pool.Release(w.jobChannel)
			job := <-w.jobChannel
			if job.stop {
				w.pool.retire(w.jobChannel)
				return
			}
			if job.Run != nil {
				job.Run()
			}
		}
	}()
}
