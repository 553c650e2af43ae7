package gateway

import "errors"

// ErrNotFound reports a write against a record that no longer exists.
var ErrNotFound = errors.New("review not found")

// WriteError wraps a failed create/update/delete against the document
// collection. The backend message is surfaced verbatim so the form can
// show it, with a generic fallback when there is none.
type WriteError struct {
	Op  string // "create", "update", "delete"
	Err error
}

func (e *WriteError) Error() string {
	if e.Err != nil && e.Err.Error() != "" {
		return e.Err.Error()
	}
	return "the request could not be completed, please try again"
}

func (e *WriteError) Unwrap() error { return e.Err }

// UploadError wraps a blob store rejection or a network failure during
// image upload. No record write proceeds after one of these.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	if e.Err != nil && e.Err.Error() != "" {
		return e.Err.Error()
	}
	return "image upload failed, please try again"
}

func (e *UploadError) Unwrap() error { return e.Err }

// SubscriptionError reports an abnormally terminated live stream. It is
// delivered at most once per subscription; the stream is dead afterwards.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string {
	if e.Err != nil && e.Err.Error() != "" {
		return e.Err.Error()
	}
	return "live updates stopped unexpectedly"
}

func (e *SubscriptionError) Unwrap() error { return e.Err }
