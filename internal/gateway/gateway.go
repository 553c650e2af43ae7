// Package gateway isolates every network call against the backend: CRUD
// and a live change feed on the review collection, plus image uploads to
// the blob store. Nothing above this package imports a driver type.
package gateway

import (
	"context"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"reviewwall/internal/review"
)

// Gateway binds one review collection and one upload folder.
type Gateway struct {
	reviews *mongo.Collection
	cld     *cloudinary.Cloudinary
	folder  string
	logger  *zap.SugaredLogger
}

func New(db *mongo.Database, collection string, cld *cloudinary.Cloudinary, folder string, logger *zap.SugaredLogger) *Gateway {
	return &Gateway{
		reviews: db.Collection(collection),
		cld:     cld,
		folder:  folder,
		logger:  logger,
	}
}

// CreateRecord persists a new review with a gateway-stamped creation
// time and returns the assigned document ID.
func (g *Gateway) CreateRecord(ctx context.Context, rec review.Review) (string, error) {
	doc := bson.M{
		"name":      rec.Name,
		"location":  rec.Location,
		"text":      rec.Text,
		"rating":    rec.Rating,
		"userId":    rec.UserID,
		"imageUrl":  rec.ImageURL,
		"createdAt": time.Now().UTC(),
	}

	res, err := g.reviews.InsertOne(ctx, doc)
	if err != nil {
		return "", &WriteError{Op: "create", Err: err}
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", &WriteError{Op: "create"}
	}
	g.logger.Infow("review created", "id", oid.Hex())
	return oid.Hex(), nil
}

// UpdateRecord merges the non-nil patch fields into an existing
// document. Updating a record that no longer exists is a WriteError.
func (g *Gateway) UpdateRecord(ctx context.Context, id string, patch review.Patch) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &WriteError{Op: "update", Err: ErrNotFound}
	}

	set := patchSet(patch)
	if len(set) == 0 {
		return nil
	}

	res, err := g.reviews.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return &WriteError{Op: "update", Err: err}
	}
	if res.MatchedCount == 0 {
		return &WriteError{Op: "update", Err: ErrNotFound}
	}
	return nil
}

// DeleteRecord removes the document.
func (g *Gateway) DeleteRecord(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &WriteError{Op: "delete", Err: ErrNotFound}
	}

	res, err := g.reviews.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return &WriteError{Op: "delete", Err: err}
	}
	if res.DeletedCount == 0 {
		return &WriteError{Op: "delete", Err: ErrNotFound}
	}
	g.logger.Infow("review deleted", "id", id)
	return nil
}

// patchSet flattens a Patch into the $set document. userId is never part
// of a patch; it is immutable after creation.
func patchSet(patch review.Patch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.ImageURL != nil {
		set["imageUrl"] = *patch.ImageURL
	}
	return set
}

// snapshot reads the full record set ordered by creation time, newest
// first. The subscription delivers exactly what this returns.
func (g *Gateway) snapshot(ctx context.Context) ([]review.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := g.reviews.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, err
	}

	docs := make([]review.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, documentFromBSON(m))
	}
	return docs, nil
}

// documentFromBSON normalizes driver types to plain Go values so the
// layers above never see bson primitives.
func documentFromBSON(m bson.M) review.Document {
	doc := review.Document{Fields: make(map[string]any, len(m))}
	for k, v := range m {
		switch tv := v.(type) {
		case primitive.ObjectID:
			if k == "_id" {
				doc.ID = tv.Hex()
				continue
			}
			doc.Fields[k] = tv.Hex()
		case primitive.DateTime:
			doc.Fields[k] = tv.Time().UTC()
		default:
			doc.Fields[k] = v
		}
	}
	return doc
}
