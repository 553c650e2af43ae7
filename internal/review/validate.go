package review

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Image policy. Oversized or non-image attachments are rejected before
// the blob store is ever contacted.
const (
	MaxImageBytes   = 5 * 1024 * 1024 // 5MB
	ImageMIMEPrefix = "image/"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the user-entered fields of a draft. A zero rating is
// "unset" and never accepted.
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return &ValidationError{
			Field:   strings.ToLower(errs[0].Field()),
			Message: messageFor(errs[0]),
		}
	}
	return &ValidationError{Message: err.Error()}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Field() == "Rating" {
			return "please pick a star rating"
		}
		return "this field is required"
	case "min", "max":
		return "rating must be between 1 and 5"
	}
	return "invalid value"
}

// Validate enforces the upload policy on an attached image. A nil image
// is fine; a review does not need one.
func (img *Image) Validate() error {
	if img == nil {
		return nil
	}
	if img.Size > MaxImageBytes {
		return &ValidationError{Field: "image", Message: "image must be 5MB or smaller"}
	}
	if !strings.HasPrefix(img.ContentType, ImageMIMEPrefix) {
		return &ValidationError{Field: "image", Message: "file must be an image"}
	}
	return nil
}

// Validate rejects out-of-range values carried by an edit. Nil fields
// are not part of the update and are skipped.
func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Message: "this field is required"}
	}
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return &ValidationError{Field: "text", Message: "this field is required"}
	}
	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return &ValidationError{Field: "rating", Message: "rating must be between 1 and 5"}
	}
	return nil
}
