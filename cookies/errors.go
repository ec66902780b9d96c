package cookies

import "fmt"

// EscalationError is the terminal failure of the ladder. The rung-1 browser
// error propagates as the primary failure with the rung-0 error retained as
// its origin, so diagnostics keep the full ladder.
type EscalationError struct {
	// Rung is the last rung that ran before the ladder gave up.
	Rung Rung
	// Err is the browser-session failure being propagated.
	Err error
	// Origin is the initial cookie-file failure.
	Origin error
}

func (e *EscalationError) Error() string {
	return fmt.Sprintf("cookies are required to access this content: %v", e.Err)
}

func (e *EscalationError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Origin != nil {
		errs = append(errs, e.Origin)
	}
	return errs
}
