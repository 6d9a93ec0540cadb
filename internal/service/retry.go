package service

// attemptState is the state of a bounded sequence of model attempts.
type attemptState int

const (
	stateAttempting attemptState = iota
	stateSucceeded
	stateExhausted
)

func (s attemptState) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateSucceeded:
		return "succeeded"
	case stateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// attemptMachine tracks attempts and the last failure. Attempts run one at a
// time: next is called before each attempt and exactly one of succeed, fail
// or abort after it.
type attemptMachine struct {
	limit   int
	attempt int
	state   attemptState
	lastErr error
}

func newAttemptMachine(limit int) *attemptMachine {
	if limit < 1 {
		limit = 1
	}
	return &attemptMachine{limit: limit, state: stateAttempting}
}

// next starts another attempt and reports whether one may run.
func (m *attemptMachine) next() bool {
	if m.state != stateAttempting || m.attempt >= m.limit {
		return false
	}
	m.attempt++
	return true
}

func (m *attemptMachine) succeed() {
	if m.state == stateAttempting {
		m.state = stateSucceeded
	}
}

// fail records err; the machine is exhausted once the last attempt has failed.
func (m *attemptMachine) fail(err error) {
	if m.state != stateAttempting {
		return
	}
	m.lastErr = err
	if m.attempt >= m.limit {
		m.state = stateExhausted
	}
}

// abort ends the sequence early, e.g. when the caller's context is done.
func (m *attemptMachine) abort(err error) {
	if m.state != stateAttempting {
		return
	}
	m.lastErr = err
	m.state = stateExhausted
}

func (m *attemptMachine) Attempt() int { return m.attempt }

func (m *attemptMachine) State() attemptState { return m.state }

func (m *attemptMachine) LastErr() error { return m.lastErr }
