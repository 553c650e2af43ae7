package gateway

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"reviewwall/internal/review"
)

// Subscribe opens the live feed on the review collection. onSnapshot
// receives the full, createdAt-descending record set once immediately
// and again after every remote change. onError fires at most once, after
// which the stream is dead; recovery needs a fresh subscription.
//
// The returned cancel func stops future deliveries and is idempotent. It
// does not abort writes already in flight.
func (g *Gateway) Subscribe(onSnapshot func([]review.Document), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Open the change stream before the initial read so no event falling
	// between the two is lost.
	stream, err := g.reviews.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, &SubscriptionError{Err: err}
	}

	go g.pump(ctx, stream, onSnapshot, onError)
	return cancel, nil
}

// pump is the single delivery goroutine for one subscription. All
// snapshots pass through here sequentially, so consumers observe them in
// arrival order.
func (g *Gateway) pump(ctx context.Context, stream *mongo.ChangeStream, onSnapshot func([]review.Document), onError func(error)) {
	defer stream.Close(context.Background())

	fail := func(err error) {
		if ctx.Err() != nil {
			// Torn down by the consumer, not a stream failure.
			return
		}
		g.logger.Errorw("review subscription terminated", "error", err)
		onError(&SubscriptionError{Err: err})
	}

	deliver := func() bool {
		docs, err := g.snapshot(ctx)
		if err != nil {
			fail(err)
			return false
		}
		onSnapshot(docs)
		return true
	}

	if !deliver() {
		return
	}

	for stream.Next(ctx) {
		// The event itself is only a wake-up; the authoritative state is
		// re-read wholesale rather than patched from the delta.
		if !deliver() {
			return
		}
	}

	if err := stream.Err(); err != nil {
		fail(err)
	}
}
