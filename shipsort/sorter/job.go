package sorter

import "sync"

// Job is a throttled sort running in the background. It places one item every delay until it
// runs out of items or is cancelled.
type Job struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// newJob ...
func newJob() *Job {
	return &Job{stop: make(chan struct{}), done: make(chan struct{})}
}

// Cancel stops the job before its next placement. Items not yet placed are abandoned.
func (j *Job) Cancel() {
	j.once.Do(func() {
		close(j.stop)
	})
}

// Done is closed once the job has stopped, whether it finished or was cancelled.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// cancelled ...
func (j *Job) cancelled() bool {
	select {
	case <-j.stop:
		return true
	default:
		return false
	}
}
