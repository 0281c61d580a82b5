package model

import "time"

// Outcome is the state of a single invocation.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "pending"
	}
}

// InvocationRecord holds the per-call state used to build notification text.
// One record exists per call and is discarded after the terminal message.
type InvocationRecord struct {
	Operation  string
	Host       string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    Outcome

	// Returned is the text form of the return value on success.
	Returned string
	// ErrorText and StackTrace describe the failure.
	ErrorText  string
	StackTrace string
}

// Elapsed is the wall-clock duration of the call, zero while pending.
func (r *InvocationRecord) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeed marks the record as finished successfully.
func (r *InvocationRecord) Succeed(at time.Time, returned string) {
	r.FinishedAt = at
	r.Outcome = OutcomeSuccess
	r.Returned = returned
}

// Fail marks the record as crashed.
func (r *InvocationRecord) Fail(at time.Time, errText, trace string) {
	r.FinishedAt = at
	r.Outcome = OutcomeFailure
	r.ErrorText = errText
	r.StackTrace = trace
}
