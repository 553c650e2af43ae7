package gateway

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"reviewwall/internal/review"
)

// UploadImage stores the attachment in the configured folder and returns
// its public URL. The record write that follows must carry this URL, so
// callers upload first and create second.
func (g *Gateway) UploadImage(ctx context.Context, img review.Image) (string, error) {
	resp, err := g.cld.Upload.Upload(ctx, img.Reader, uploader.UploadParams{
		Folder:    g.folder,
		PublicID:  publicID(img.Name),
		Overwrite: api.Bool(false),
	})
	if err != nil {
		return "", &UploadError{Err: fmt.Errorf("cloudinary upload: %w", err)}
	}
	if resp.SecureURL == "" {
		return "", &UploadError{Err: errors.New(resp.Error.Message)}
	}

	g.logger.Infow("image uploaded", "url", resp.SecureURL)
	return resp.SecureURL, nil
}

// publicID namespaces the object under a timestamp prefix so two uploads
// sharing a base name never collide. The extension is dropped; the blob
// store derives the delivery format itself.
func publicID(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixNano(), base)
}
