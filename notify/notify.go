// Package notify is the fire-and-forget notification sink used after
// every state-changing prescription operation. Nothing consumes a
// return value; a sink that fails simply drops the message.
package notify

import "github.com/sehatnxt/prescriptions-api/logging"

// Kind classifies a notice the way the host UI renders toasts.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// Notice is one user-facing message.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Sink receives user-facing notices.
type Sink interface {
	Notify(kind Kind, message string)
}

// LogSink writes notices to the structured log. It is the default sink
// behind every recorder.
type LogSink struct{}

var _ Sink = LogSink{}

// Notify implements Sink.
func (LogSink) Notify(kind Kind, message string) {
	switch kind {
	case Error:
		logging.Warn("User notice", "kind", string(kind), "message", message)
	case Warning:
		logging.Warn("User notice", "kind", string(kind), "message", message)
	default:
		logging.Info("User notice", "kind", string(kind), "message", message)
	}
}

// Recorder collects the notices produced while handling one operation
// so they can be returned to the caller, forwarding each one to the
// wrapped sink as it arrives. Not safe for concurrent use; create one
// per request.
type Recorder struct {
	next    Sink
	notices []Notice
}

var _ Sink = (*Recorder)(nil)

// NewRecorder wraps next (nil means notices are only collected).
func NewRecorder(next Sink) *Recorder {
	return &Recorder{next: next}
}

// Notify implements Sink.
func (r *Recorder) Notify(kind Kind, message string) {
	r.notices = append(r.notices, Notice{Kind: kind, Message: message})
	if r.next != nil {
		r.next.Notify(kind, message)
	}
}

// Notices returns everything recorded so far, in arrival order.
func (r *Recorder) Notices() []Notice {
	return r.notices
}
