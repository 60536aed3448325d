package plugin

import (
	"context"
	"io"
)

// ArtifactStore persists the plugin binary artifact backing a SemVer
// version. Keyed by version instead of the theme name the underlying
// object-storage interface was originally built around.
type ArtifactStore interface {
	Upload(ctx context.Context, semver string, r io.Reader, size int64, contentType string) (string, error)
	Exists(ctx context.Context, semver string) (bool, error)
	PublicURL(semver string) string
	Delete(ctx context.Context, semver string) error
}

// ArtifactService exposes the plugin binary upload/download path game
// servers and admins use, independent of the checksum-verification Service.
type ArtifactService interface {
	// Upload stores r as the binary artifact for semver and returns its
	// public URL.
	Upload(ctx context.Context, semver string, r io.Reader, size int64, contentType string) (string, error)

	// DownloadURL returns the artifact's public URL, or ok=false if none has
	// been uploaded for semver yet.
	DownloadURL(ctx context.Context, semver string) (url string, ok bool, err error)
}

type artifactService struct {
	store ArtifactStore
}

// NewArtifactService constructs an ArtifactService over store.
func NewArtifactService(store ArtifactStore) ArtifactService {
	return &artifactService{store: store}
}

func (s *artifactService) Upload(ctx context.Context, semver string, r io.Reader, size int64, contentType string) (string, error) {
	return s.store.Upload(ctx, semver, r, size, contentType)
}

func (s *artifactService) DownloadURL(ctx context.Context, semver string) (string, bool, error) {
	ok, err := s.store.Exists(ctx, semver)
	if err != nil || !ok {
		return "", false, err
	}
	return s.store.PublicURL(semver), true, nil
}
