// Package pool provides the fixed-size worker pool that rebuild
// runs schedule their zone assembly jobs on.
package pool

type Pool struct {
	workers int
	jobCh   chan func()
}

// New creates a pool of workerCount goroutines fed by a job
// channel holding up to jobChanSize pending jobs. Start must be
// called before jobs are added.
func New(workerCount int, jobChanSize int) *Pool {
	return &Pool{
		workers: workerCount,
		jobCh:   make(chan func(), jobChanSize),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		go func() {
			for job := range p.jobCh {
				job()
			}
		}()
	}
}

// Add schedules a job. It blocks while the job channel is full.
func (p *Pool) Add(f func()) {
	p.jobCh <- f
}

// Stop closes the job channel. Workers finish the jobs already
// added and exit. Add must not be called after Stop.
func (p *Pool) Stop() {
	close(p.jobCh)
}
