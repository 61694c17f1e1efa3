package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/media/unsplash"
	"github.com/blog-agent/pkg/logger"
)

// PhotoSource finds and downloads a stock photo for a search query.
type PhotoSource interface {
	GetBestPhoto(ctx context.Context, query string) (*unsplash.Photo, error)
	DownloadPhoto(ctx context.Context, photo *unsplash.Photo) ([]byte, error)
}

// Uploader hosts image bytes and returns a public URL.
type Uploader interface {
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}

// Resolver produces a feature image URL for a post title. It never fails:
// any error along the search/download/upload path degrades to the
// configured fallback image.
type Resolver struct {
	cfg      config.MediaConfig
	source   PhotoSource
	uploader Uploader
	log      *logger.Logger
}

// NewResolver creates a feature image resolver.
func NewResolver(cfg config.MediaConfig, source PhotoSource, uploader Uploader, log *logger.Logger) *Resolver {
	return &Resolver{
		cfg:      cfg,
		source:   source,
		uploader: uploader,
		log:      log.WithComponent("media"),
	}
}

// FeatureImage resolves a hosted image URL for the given title.
func (r *Resolver) FeatureImage(ctx context.Context, title string) string {
	if !r.cfg.Enabled || r.source == nil {
		return r.cfg.FallbackImage
	}

	query := imageQuery(title)

	photo, err := r.source.GetBestPhoto(ctx, query)
	if err != nil {
		r.log.Warn().Err(err).Str("query", query).Msg("Photo search failed, using fallback image")
		return r.cfg.FallbackImage
	}

	data, err := r.source.DownloadPhoto(ctx, photo)
	if err != nil {
		r.log.Warn().Err(err).Str("photo_id", photo.ID).Msg("Photo download failed, using fallback image")
		return r.cfg.FallbackImage
	}

	if r.uploader == nil {
		// No hosting configured, link Unsplash directly
		if photo.URLs.Regular != "" {
			return photo.URLs.Regular
		}
		return r.cfg.FallbackImage
	}

	url, err := r.uploader.UploadImage(ctx, fmt.Sprintf("%s.jpg", photo.ID), data)
	if err != nil {
		r.log.Warn().Err(err).Msg("Image upload failed, using fallback image")
		return r.cfg.FallbackImage
	}

	r.log.Info().Str("url", url).Str("title", title).Msg("Feature image resolved")
	return url
}

// imageQuery reduces a post title to a short photo search query.
func imageQuery(title string) string {
	words := strings.Fields(title)
	if len(words) > 4 {
		words = words[:4]
	}
	return strings.Join(words, " ")
}
