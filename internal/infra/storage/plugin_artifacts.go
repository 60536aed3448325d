package storage

import (
	"context"
	"io"

	"github.com/kz-league/backend/domain/plugin"
)

// binaryArtifactFile is the fixed filename every plugin version's binary
// is stored under within its own version-keyed prefix.
const binaryArtifactFile = "plugin-binary"

// pluginArtifactStore adapts Storage's theme-keyed asset shape to
// domain/plugin.ArtifactStore, substituting SemVer for theme name.
type pluginArtifactStore struct {
	backing Storage
}

// NewPluginArtifactStore wraps s as a domain/plugin.ArtifactStore.
func NewPluginArtifactStore(s Storage) plugin.ArtifactStore {
	return &pluginArtifactStore{backing: s}
}

func (a *pluginArtifactStore) Upload(ctx context.Context, semver string, r io.Reader, size int64, contentType string) (string, error) {
	return a.backing.UploadFile(ctx, semver, binaryArtifactFile, r, size, contentType)
}

func (a *pluginArtifactStore) Exists(ctx context.Context, semver string) (bool, error) {
	return a.backing.FileExists(ctx, semver, binaryArtifactFile)
}

func (a *pluginArtifactStore) PublicURL(semver string) string {
	return a.backing.GetPublicURL(semver, binaryArtifactFile)
}

func (a *pluginArtifactStore) Delete(ctx context.Context, semver string) error {
	return a.backing.DeleteFile(ctx, semver, binaryArtifactFile)
}
