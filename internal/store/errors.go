package store

// AuthorizationError reports a failed ownership check. It is decided
// entirely from local state and the client identity; no round trip is
// made, which distinguishes it from a remote WriteError.
type AuthorizationError struct {
	ID string
}

func (e *AuthorizationError) Error() string {
	return "you can only modify your own review"
}

// SubmissionError wraps the upload or write failure behind a rejected
// Add call.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil && e.Err.Error() != "" {
		return e.Err.Error()
	}
	return "failed to submit review, please try again"
}

func (e *SubmissionError) Unwrap() error { return e.Err }
