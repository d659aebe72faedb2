package worker

import (
	"sync"
	"time"
)

// turnPool keeps an elastic set of workers that execute chat-turn jobs. It
// grows on demand up to max while turns are waiting on the upstream model,
// and reaps workers that sat idle past the expiry back down to min.
type turnPool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	idle     []*workerMeta
	metadata map[chan Job]*workerMeta
	min      int
	max      int
	running  int
	expiry   time.Duration
}

type workerMeta struct {
	ch        chan Job
	idleSince time.Time
	enqueued  bool // currently in the idle list
	discarded bool // marked for removal, must not be handed out
}

const defaultWorkerIdle = 30 * time.Second

func newTurnPool(minWorkers, maxWorkers int, idle time.Duration) *turnPool {
	if minWorkers < 1 {
		minWorkers = 1
	}
	if maxWorkers < minWorkers {
		maxWorkers = minWorkers
	}
	if idle <= 0 {
		idle = defaultWorkerIdle
	}
	p := &turnPool{
		metadata: make(map[chan Job]*workerMeta),
		min:      minWorkers,
		max:      maxWorkers,
		expiry:   idle,
	}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < minWorkers; i++ {
		p.startWorker()
	}
	go p.reapLoop()
	return p
}

// startWorker registers and starts one worker unless the pool is at max.
func (p *turnPool) startWorker() {
	p.mu.Lock()
	if p.running >= p.max {
		p.mu.Unlock()
		return
	}
	w := NewWorker(p)
	p.metadata[w.jobChannel] = &workerMeta{ch: w.jobChannel}
	p.running++
	p.mu.Unlock()
	w.Start()
}

// acquire returns a channel to a worker ready for one job. Blocks when all
// max workers are busy; a release or retire wakes it up.
func (p *turnPool) acquire() chan Job {
	for {
		p.mu.Lock()
		if meta := p.popIdleLocked(); meta != nil {
			p.mu.Unlock()
			return meta.ch
		}
		if p.running < p.max {
			p.mu.Unlock()
			p.startWorker()
			continue
		}
		p.cond.Wait()
		p.mu.Unlock()
	}
}

func (p *turnPool) popIdleLocked() *workerMeta {
	for len(p.idle) > 0 {
		meta := p.idle[0]
		p.idle = p.idle[1:]
		if meta.discarded {
			continue
		}
		meta.enqueued = false
		return meta
	}
	return nil
}

// Release marks a worker idle again after it finished a job.
func (p *turnPool) Release(ch chan Job) {
	p.mu.Lock()
	meta, ok := p.metadata[ch]
	if !ok || meta.discarded || meta.enqueued {
		p.mu.Unlock()
		return
	}
	meta.enqueued = true
	meta.idleSince = time.Now()
	p.idle = append(p.idle, meta)
	p.mu.Unlock()
	p.cond.Signal()
}

// retire removes a stopped worker from the pool.
func (p *turnPool) retire(ch chan Job) {
	p.mu.Lock()
	if meta, ok := p.metadata[ch]; ok {
		delete(p.metadata, ch)
		meta.discarded = true
		if p.running > 0 {
			p.running--
		}
	}
	p.mu.Unlock()
	p.cond.Broadcast()
}

func (p *turnPool) reapLoop() {
	ticker := time.NewTicker(p.expiry)
	defer ticker.Stop()
	for range ticker.C {
		p.reapExpired()
	}
}

// reapExpired stops idle workers past the expiry, never dropping below min.
func (p *turnPool) reapExpired() {
	now := time.Now()
	var stale []*workerMeta

	p.mu.Lock()
	if len(p.idle) == 0 || p.running <= p.min {
		p.mu.Unlock()
		return
	}
	keep := p.idle[:0]
	for _, meta := range p.idle {
		if meta.discarded {
			continue
		}
		if now.Sub(meta.idleSince) >= p.expiry && p.running-len(stale) > p.min {
			meta.discarded = true
			meta.enqueued = false
			stale = append(stale, meta)
			continue
		}
		keep = append(keep, meta)
	}
	p.idle = keep
	p.mu.Unlock()

	for _, meta := range stale {
		meta.ch <- Job{stop: true}
	}
}
