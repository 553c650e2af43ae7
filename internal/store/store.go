// Package store owns the in-memory review list and keeps it consistent
// with the remote collection. It is the only component holding derived
// application state; the form and the list cards bind to its contract.
//
// State is rebuilt wholesale from the authoritative remote stream rather
// than patched from local mutation results. A submitted review becomes
// visible only when the subscription echoes it back, which trades a
// round-trip of latency for a single source of truth.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"reviewwall/internal/identity"
	"reviewwall/internal/review"
)

// Gateway is the remote boundary the store mutates and subscribes
// through.
type Gateway interface {
	Subscribe(onSnapshot func([]review.Document), onError func(error)) (func(), error)
	CreateRecord(ctx context.Context, rec review.Review) (string, error)
	UpdateRecord(ctx context.Context, id string, patch review.Patch) error
	DeleteRecord(ctx context.Context, id string) error
	UploadImage(ctx context.Context, img review.Image) (string, error)
}

// State is the read-only projection handed to the presentation layer:
// the current list, whether the first snapshot is still pending, and the
// last stream error if the subscription died.
type State struct {
	Reviews []review.Review
	Loading bool
	Err     error
}

// Store synchronizes the local review list with the remote collection.
// A store subscribes once when opened; after Close it is spent and a new
// one must be built to resubscribe.
type Store struct {
	gw       Gateway
	ids      identity.Provider
	logger   *zap.SugaredLogger
	onChange func(State)

	mu      sync.Mutex
	reviews []review.Review
	loading bool
	err     error
	closed  bool

	cancel    func()
	closeOnce sync.Once
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithOnChange registers a callback invoked after every state
// transition. The State it receives is a copy; the callback runs on the
// delivery goroutine and should hand off quickly.
func WithOnChange(fn func(State)) Option {
	return func(s *Store) { s.onChange = fn }
}

// Open builds a store and subscribes immediately. If the subscription
// cannot be established the store starts in the errored state; it never
// fails to construct.
func Open(gw Gateway, ids identity.Provider, logger *zap.SugaredLogger, opts ...Option) *Store {
	s := &Store{
		gw:      gw,
		ids:     ids,
		logger:  logger,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	cancel, err := gw.Subscribe(s.onSnapshot, s.onError)
	if err != nil {
		s.onError(err)
		return s
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	return s
}

// onSnapshot replaces the whole list with the decoded delivery. No
// local resort: the stream's createdAt-descending order is authoritative.
func (s *Store) onSnapshot(docs []review.Document) {
	recs := make([]review.Review, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, review.Decode(doc))
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.reviews = recs
	s.loading = false
	st := s.stateLocked()
	s.mu.Unlock()

	s.emit(st)
}

// onError marks the stream dead. The last-known list is kept: stale but
// available beats blank.
func (s *Store) onError(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.err = err
	s.loading = false
	st := s.stateLocked()
	s.mu.Unlock()

	s.logger.Errorw("review stream failed", "error", err)
	s.emit(st)
}

// Add validates the draft, uploads the image if one is attached, then
// creates the record with the client identity stamped in. The created
// review must carry the resolved image URL, so the upload strictly
// precedes the write. Local state is untouched; the subscription echoes
// the new record back.
func (s *Store) Add(ctx context.Context, draft review.Draft, img *review.Image) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	if err := img.Validate(); err != nil {
		return err
	}

	imageURL := ""
	if img != nil {
		url, err := s.gw.UploadImage(ctx, *img)
		if err != nil {
			return &SubmissionError{Err: err}
		}
		imageURL = url
	}

	rec := review.Review{
		Name:     draft.Name,
		Location: draft.Location,
		Text:     draft.Text,
		Rating:   draft.Rating,
		UserID:   s.ids.UserID(),
		ImageURL: imageURL,
	}
	if _, err := s.gw.CreateRecord(ctx, rec); err != nil {
		return &SubmissionError{Err: err}
	}
	return nil
}

// Update edits a review the current client owns. Without a new image the
// existing URL is re-sent unchanged, so a text-only edit can never wipe
// a previously attached photo.
func (s *Store) Update(ctx context.Context, id string, patch review.Patch, img *review.Image) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if err := img.Validate(); err != nil {
		return err
	}

	current, err := s.owned(id)
	if err != nil {
		return err
	}

	if img != nil {
		url, err := s.gw.UploadImage(ctx, *img)
		if err != nil {
			return err
		}
		patch.ImageURL = &url
	} else if current.ImageURL != "" {
		url := current.ImageURL
		patch.ImageURL = &url
	}

	return s.gw.UpdateRecord(ctx, id, patch)
}

// Remove deletes a review the current client owns.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.owned(id); err != nil {
		return err
	}
	return s.gw.DeleteRecord(ctx, id)
}

// owned looks the record up in the current local list, not a fresh
// fetch, and checks it against the client identity.
func (s *Store) owned(id string) (review.Review, error) {
	me := s.ids.UserID()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.reviews {
		if rec.ID == id {
			if rec.UserID != me {
				return review.Review{}, &AuthorizationError{ID: id}
			}
			return rec, nil
		}
	}
	return review.Review{}, &AuthorizationError{ID: id}
}

// Reviews returns a copy of the current list in delivery order.
func (s *Store) Reviews() []review.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]review.Review(nil), s.reviews...)
}

// Loading reports whether the first snapshot is still pending.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the stream error, if the subscription has died.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// State returns the full presentation contract in one call.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	return State{
		Reviews: append([]review.Review(nil), s.reviews...),
		Loading: s.loading,
		Err:     s.err,
	}
}

// Close tears the subscription down. Idempotent; the underlying cancel
// runs once. In-flight writes are not aborted, only future snapshot
// deliveries stop.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		cancel := s.cancel
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
	})
}

func (s *Store) emit(st State) {
	if s.onChange != nil {
		s.onChange(st)
	}
}
