package plugin

import (
	"bytes"
	"context"
	"fmt"
)

// Service is the plugin-version catalogue's business logic: SemVer
// resolution for the server key-exchange, and the checksum verification
// the WS handshake and NewRecord handler require.
type Service interface {
	// ResolveVersion resolves a SemVer string to its catalogue row id.
	// Implements auth.PluginVersionResolver.
	ResolveVersion(ctx context.Context, semver string) (uint64, error)

	// VerifyBinaryChecksum checks the plugin binary checksum presented at
	// WS handshake against the catalogue.
	VerifyBinaryChecksum(ctx context.Context, pluginVersionID uint64, checksum []byte) error

	// VerifyModeChecksum checks NewRecord's mode_md5 against the stored
	// checksum for that plugin version's mode.
	VerifyModeChecksum(ctx context.Context, pluginVersionID uint64, mode string, checksum []byte) error

	// VerifyStyleChecksums checks every entry in styles against its stored
	// checksum; on a mismatch it returns ErrChecksumMismatch wrapped with
	// the style's name (map iteration order picks which, if several differ).
	VerifyStyleChecksums(ctx context.Context, pluginVersionID uint64, styles map[string][]byte) error

	// ResolveStyleBits turns a set of style names into the Records.styles
	// bitset, using the bit each style's checksum row carries.
	ResolveStyleBits(ctx context.Context, pluginVersionID uint64, styleNames []string) (uint64, error)
}

type service struct {
	repo Repository
}

// NewService constructs the plugin Service over a Repository.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ResolveVersion(ctx context.Context, semver string) (uint64, error) {
	v, err := s.repo.GetVersionBySemVer(ctx, semver)
	if err != nil {
		return 0, ErrUnknownVersion
	}
	return v.ID, nil
}

func (s *service) VerifyBinaryChecksum(ctx context.Context, pluginVersionID uint64, checksum []byte) error {
	return s.verify(ctx, pluginVersionID, ChecksumBinary, "", checksum)
}

func (s *service) VerifyModeChecksum(ctx context.Context, pluginVersionID uint64, mode string, checksum []byte) error {
	return s.verify(ctx, pluginVersionID, ChecksumMode, mode, checksum)
}

func (s *service) VerifyStyleChecksums(ctx context.Context, pluginVersionID uint64, styles map[string][]byte) error {
	for name, checksum := range styles {
		if err := s.verify(ctx, pluginVersionID, ChecksumStyle, name, checksum); err != nil {
			return fmt.Errorf("%w: style %q", ErrChecksumMismatch, name)
		}
	}
	return nil
}

func (s *service) ResolveStyleBits(ctx context.Context, pluginVersionID uint64, styleNames []string) (uint64, error) {
	var bits uint64
	for _, name := range styleNames {
		c, err := s.repo.GetChecksum(ctx, pluginVersionID, ChecksumStyle, name)
		if err != nil {
			return 0, fmt.Errorf("%w: unknown style %q", ErrChecksumMismatch, name)
		}
		bits |= 1 << c.Bit
	}
	return bits, nil
}

func (s *service) verify(ctx context.Context, pluginVersionID uint64, kind ChecksumKind, subject string, checksum []byte) error {
	stored, err := s.repo.GetChecksum(ctx, pluginVersionID, kind, subject)
	if err != nil {
		return fmt.Errorf("%w: no stored checksum for %s %q", ErrChecksumMismatch, kind, subject)
	}
	if !bytes.Equal(stored.Checksum, checksum) {
		return ErrChecksumMismatch
	}
	return nil
}
