package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores team logos in an object store.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// LogoExtension returns the file extension for an accepted logo content type.
func LogoExtension(contentType string) (string, bool) {
	ext, ok := logoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// TeamLogoKey builds the object key of a team logo. The timestamp keeps
// replaced logos from being served out of a CDN cache.
func TeamLogoKey(tournamentID, teamID int, ext string, now time.Time) string {
	return path.Join("tournaments", fmt.Sprint(tournamentID), "teams",
		fmt.Sprintf("%d-%d%s", teamID, now.Unix(), ext))
}
