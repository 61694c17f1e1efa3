package media

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blog-agent/internal/config"
	"github.com/blog-agent/internal/media/unsplash"
	"github.com/blog-agent/pkg/logger"
)

type fakePhotoSource struct {
	photo   *unsplash.Photo
	findErr error
	data    []byte
	dlErr   error
}

func (s *fakePhotoSource) GetBestPhoto(ctx context.Context, query string) (*unsplash.Photo, error) {
	return s.photo, s.findErr
}

func (s *fakePhotoSource) DownloadPhoto(ctx context.Context, photo *unsplash.Photo) ([]byte, error) {
	return s.data, s.dlErr
}

type fakeUploader struct {
	url string
	err error
}

func (u *fakeUploader) UploadImage(ctx context.Context, filename string, data []byte) (string, error) {
	return u.url, u.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled"})
}

const fallbackURL = "https://cms.example.com/fallback.jpg"

func enabledCfg() config.MediaConfig {
	return config.MediaConfig{Enabled: true, FallbackImage: fallbackURL}
}

func TestFeatureImageHappyPath(t *testing.T) {
	source := &fakePhotoSource{
		photo: &unsplash.Photo{ID: "p1"},
		data:  []byte{0xFF, 0xD8},
	}
	uploader := &fakeUploader{url: "https://cms.example.com/p1.jpg"}
	r := NewResolver(enabledCfg(), source, uploader, testLogger())

	got := r.FeatureImage(context.Background(), "Mastering Goroutines In Production Systems")
	require.Equal(t, "https://cms.example.com/p1.jpg", got)
}

func TestFeatureImageDisabledUsesFallback(t *testing.T) {
	cfg := config.MediaConfig{Enabled: false, FallbackImage: fallbackURL}
	r := NewResolver(cfg, &fakePhotoSource{}, &fakeUploader{}, testLogger())

	require.Equal(t, fallbackURL, r.FeatureImage(context.Background(), "Any Title"))
}

func TestFeatureImageDegradesOnFailures(t *testing.T) {
	tests := []struct {
		name     string
		source   *fakePhotoSource
		uploader *fakeUploader
	}{
		{
			name:     "search fails",
			source:   &fakePhotoSource{findErr: fmt.Errorf("api down")},
			uploader: &fakeUploader{},
		},
		{
			name:     "download fails",
			source:   &fakePhotoSource{photo: &unsplash.Photo{ID: "p1"}, dlErr: fmt.Errorf("timeout")},
			uploader: &fakeUploader{},
		},
		{
			name:     "upload fails",
			source:   &fakePhotoSource{photo: &unsplash.Photo{ID: "p1"}, data: []byte{1}},
			uploader: &fakeUploader{err: fmt.Errorf("cms unreachable")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(enabledCfg(), tt.source, tt.uploader, testLogger())

			// Image resolution never fails, it degrades to the fallback
			require.Equal(t, fallbackURL, r.FeatureImage(context.Background(), "Any Title"))
		})
	}
}

func TestImageQueryTruncatesTitle(t *testing.T) {
	require.Equal(t, "How to Stay Safe", imageQuery("How to Stay Safe Online: Cybersecurity Tips"))
	require.Equal(t, "short", imageQuery("short"))
}
