package gateway

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reviewwall/internal/review"
)

func TestPatchSetOnlyIncludesPresentFields(t *testing.T) {
	text := "edited"
	rating := 2
	set := patchSet(review.Patch{Text: &text, Rating: &rating})

	assert.Equal(t, bson.M{"text": "edited", "rating": 2}, set)
}

func TestPatchSetEmptyPatch(t *testing.T) {
	assert.Empty(t, patchSet(review.Patch{}))
}

func TestPatchSetCarriesImageURL(t *testing.T) {
	url := "https://cdn.example.com/1_a.png"
	set := patchSet(review.Patch{ImageURL: &url})
	assert.Equal(t, bson.M{"imageUrl": url}, set)
}

func TestDocumentFromBSONNormalizesDriverTypes(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

	doc := documentFromBSON(bson.M{
		"_id":       oid,
		"name":      "Leila",
		"rating":    int32(4),
		"createdAt": primitive.NewDateTimeFromTime(created),
	})

	assert.Equal(t, oid.Hex(), doc.ID)
	assert.Equal(t, "Leila", doc.Fields["name"])
	assert.Equal(t, int32(4), doc.Fields["rating"])
	require.IsType(t, time.Time{}, doc.Fields["createdAt"])
	assert.True(t, created.Equal(doc.Fields["createdAt"].(time.Time)))
	assert.NotContains(t, doc.Fields, "_id")
}

func TestPublicIDPrefixesTimestampAndDropsExtension(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^\d+_photo$`), publicID("photo.jpg"))
	assert.Regexp(t, regexp.MustCompile(`^\d+_photo$`), publicID("/tmp/uploads/photo.png"))
	assert.Regexp(t, regexp.MustCompile(`^\d+_image$`), publicID(""))
}

func TestPublicIDsDifferForSameBaseName(t *testing.T) {
	a := publicID("photo.jpg")
	time.Sleep(time.Microsecond)
	b := publicID("photo.jpg")
	assert.NotEqual(t, a, b)
}

func TestWriteErrorSurfacesBackendMessage(t *testing.T) {
	err := &WriteError{Op: "update", Err: errors.New("document is locked")}
	assert.Equal(t, "document is locked", err.Error())
	assert.True(t, errors.Is(&WriteError{Op: "update", Err: ErrNotFound}, ErrNotFound))
}

func TestWriteErrorFallsBackToGenericMessage(t *testing.T) {
	err := &WriteError{Op: "create"}
	assert.Equal(t, "the request could not be completed, please try again", err.Error())
}

func TestUploadAndSubscriptionErrorMessages(t *testing.T) {
	assert.Equal(t, "too large", (&UploadError{Err: errors.New("too large")}).Error())
	assert.Equal(t, "image upload failed, please try again", (&UploadError{}).Error())
	assert.Equal(t, "permission-denied", (&SubscriptionError{Err: errors.New("permission-denied")}).Error())
	assert.Equal(t, "live updates stopped unexpectedly", (&SubscriptionError{}).Error())
}
