package plugin

import "context"

// Repository defines data access for the plugin-version catalogue.
type Repository interface {
	GetVersionBySemVer(ctx context.Context, semver string) (*Version, error)
	GetVersionByID(ctx context.Context, id uint64) (*Version, error)

	ListChecksums(ctx context.Context, pluginVersionID uint64, kind ChecksumKind) ([]*Checksum, error)
	GetChecksum(ctx context.Context, pluginVersionID uint64, kind ChecksumKind, subject string) (*Checksum, error)
}
