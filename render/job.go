package render

import (
	"fmt"
	"sync"
	"time"
)

// JobState tracks the print flow: Idle -> Rendering -> PrintInvoked ->
// Idle. The flow is one-shot; there is no retry and no cancellation.
type JobState string

const (
	StateIdle         JobState = "idle"
	StateRendering    JobState = "rendering"
	StatePrintInvoked JobState = "print_invoked"
)

// Job is one print attempt. After the document is fully written the
// print action is invoked once, following a short fixed delay that lets
// the surface finish loading.
type Job struct {
	mu       sync.Mutex
	state    JobState
	invoked  bool
	printErr error
	done     chan struct{}
}

// State returns the job's current state.
func (j *Job) State() JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Invoked reports whether the print action has run.
func (j *Job) Invoked() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.invoked
}

// PrintErr returns the error from the print action, if any.
func (j *Job) PrintErr() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.printErr
}

// Wait blocks until the print action has been invoked.
func (j *Job) Wait() {
	<-j.done
}

func (j *Job) setState(s JobState) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
}

// StartPrintJob opens the surface, writes the complete document, closes
// it, and schedules the one-shot print invocation after delay. A
// surface that cannot be opened fails the attempt immediately; nothing
// is retried.
func StartPrintJob(surface Surface, title string, document []byte, delay time.Duration) (*Job, error) {
	job := &Job{state: StateRendering, done: make(chan struct{})}

	doc, err := surface.Open(title)
	if err != nil {
		job.setState(StateIdle)
		return nil, fmt.Errorf("open print surface: %w", err)
	}

	if _, err := doc.Write(document); err != nil {
		job.setState(StateIdle)
		return nil, fmt.Errorf("write print document: %w", err)
	}
	if err := doc.Close(); err != nil {
		job.setState(StateIdle)
		return nil, fmt.Errorf("close print document: %w", err)
	}

	time.AfterFunc(delay, func() {
		err := doc.Print()

		job.mu.Lock()
		job.state = StatePrintInvoked
		job.invoked = true
		job.printErr = err
		job.mu.Unlock()

		// One-shot: the flow returns to idle once the dialog has been
		// requested.
		job.setState(StateIdle)
		close(job.done)
	})

	return job, nil
}
