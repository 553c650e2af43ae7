package review

import (
	"io"
	"time"
)

// Review is the single persisted entity: one star-rated review as it
// appears in the remote collection.
type Review struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Text      string    `json:"text"`
	Rating    int       `json:"rating"` // 1-5
	UserID    string    `json:"user_id"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft carries the user-entered fields of a not-yet-persisted review.
// ID, UserID, ImageURL and CreatedAt are stamped later by the store and
// the gateway.
type Draft struct {
	Name     string `validate:"required"`
	Location string
	Text     string `validate:"required"`
	Rating   int    `validate:"required,min=1,max=5"` // 0 means unset in the form
}

// Patch describes a partial update. Nil fields are left untouched by the
// remote merge.
type Patch struct {
	Name     *string
	Location *string
	Text     *string
	Rating   *int
	ImageURL *string
}

// Image is an attachment picked in the form, not yet uploaded.
type Image struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Document is one raw record as delivered by a subscription snapshot,
// before defaulting. Field values are plain Go types (string, int,
// time.Time); the gateway normalizes driver-specific types beforehand.
type Document struct {
	ID     string
	Fields map[string]any
}

// Decode projects a snapshot document into a Review, defaulting missing
// or malformed fields instead of failing. Snapshot processing must never
// be fatal: a half-written remote document still renders.
func Decode(doc Document) Review {
	rec := Review{
		ID:        doc.ID,
		Name:      stringField(doc.Fields, "name"),
		Location:  stringField(doc.Fields, "location"),
		Text:      stringField(doc.Fields, "text"),
		Rating:    intField(doc.Fields, "rating"),
		UserID:    stringField(doc.Fields, "userId"),
		ImageURL:  stringField(doc.Fields, "imageUrl"),
		CreatedAt: timeField(doc.Fields, "createdAt"),
	}
	if rec.Name == "" {
		rec.Name = "Anonymous"
	}
	if rec.Rating == 0 {
		rec.Rating = 5
	}
	return rec
}

func stringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

// intField coerces the numeric encodings a document database may hand
// back for the same stored value.
func intField(fields map[string]any, key string) int {
	switch v := fields[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func timeField(fields map[string]any, key string) time.Time {
	if v, ok := fields[key].(time.Time); ok && !v.IsZero() {
		return v
	}
	return time.Now().UTC()
}
