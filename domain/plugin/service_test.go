package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type checksumKey struct {
	pluginVersionID uint64
	kind            ChecksumKind
	subject         string
}

type fakeRepo struct {
	versions   map[string]*Version
	checksums  map[checksumKey]*Checksum
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		versions:  map[string]*Version{},
		checksums: map[checksumKey]*Checksum{},
	}
}

func (r *fakeRepo) GetVersionBySemVer(_ context.Context, semver string) (*Version, error) {
	if v, ok := r.versions[semver]; ok {
		return v, nil
	}
	return nil, ErrUnknownVersion
}

func (r *fakeRepo) GetVersionByID(_ context.Context, id uint64) (*Version, error) {
	for _, v := range r.versions {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, ErrUnknownVersion
}

func (r *fakeRepo) ListChecksums(_ context.Context, pluginVersionID uint64, kind ChecksumKind) ([]*Checksum, error) {
	var out []*Checksum
	for k, c := range r.checksums {
		if k.pluginVersionID == pluginVersionID && k.kind == kind {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetChecksum(_ context.Context, pluginVersionID uint64, kind ChecksumKind, subject string) (*Checksum, error) {
	if c, ok := r.checksums[checksumKey{pluginVersionID, kind, subject}]; ok {
		return c, nil
	}
	return nil, ErrUnknownVersion
}

func TestResolveVersion(t *testing.T) {
	repo := newFakeRepo()
	repo.versions["1.2.3"] = &Version{ID: 7, SemVer: "1.2.3", IsLatest: true}
	svc := NewService(repo)

	t.Run("known version resolves", func(t *testing.T) {
		id, err := svc.ResolveVersion(context.Background(), "1.2.3")
		require.NoError(t, err)
		require.Equal(t, uint64(7), id)
	})

	t.Run("unknown version errors", func(t *testing.T) {
		_, err := svc.ResolveVersion(context.Background(), "9.9.9")
		require.ErrorIs(t, err, ErrUnknownVersion)
	})
}

func TestVerifyBinaryChecksum(t *testing.T) {
	repo := newFakeRepo()
	repo.checksums[checksumKey{7, ChecksumBinary, ""}] = &Checksum{PluginVersionID: 7, Kind: ChecksumBinary, Checksum: []byte{0xAB, 0xCD}}
	svc := NewService(repo)

	t.Run("matching checksum accepted", func(t *testing.T) {
		require.NoError(t, svc.VerifyBinaryChecksum(context.Background(), 7, []byte{0xAB, 0xCD}))
	})

	t.Run("mismatched checksum rejected", func(t *testing.T) {
		err := svc.VerifyBinaryChecksum(context.Background(), 7, []byte{0x00, 0x01})
		require.ErrorIs(t, err, ErrChecksumMismatch)
	})

	t.Run("no stored checksum rejected", func(t *testing.T) {
		err := svc.VerifyBinaryChecksum(context.Background(), 99, []byte{0xAB})
		require.ErrorIs(t, err, ErrChecksumMismatch)
	})
}

func TestVerifyModeChecksum(t *testing.T) {
	repo := newFakeRepo()
	repo.checksums[checksumKey{7, ChecksumMode, "kz_vanilla"}] = &Checksum{PluginVersionID: 7, Kind: ChecksumMode, Subject: "kz_vanilla", Checksum: []byte{0x01}}
	svc := NewService(repo)

	require.NoError(t, svc.VerifyModeChecksum(context.Background(), 7, "kz_vanilla", []byte{0x01}))
	require.ErrorIs(t, svc.VerifyModeChecksum(context.Background(), 7, "kz_vanilla", []byte{0x02}), ErrChecksumMismatch)
}

func TestVerifyStyleChecksums(t *testing.T) {
	repo := newFakeRepo()
	repo.checksums[checksumKey{7, ChecksumStyle, "sideways"}] = &Checksum{PluginVersionID: 7, Kind: ChecksumStyle, Subject: "sideways", Checksum: []byte{0x01}}
	repo.checksums[checksumKey{7, ChecksumStyle, "wonly"}] = &Checksum{PluginVersionID: 7, Kind: ChecksumStyle, Subject: "wonly", Checksum: []byte{0x02}}
	svc := NewService(repo)

	t.Run("all match accepted", func(t *testing.T) {
		err := svc.VerifyStyleChecksums(context.Background(), 7, map[string][]byte{
			"sideways": {0x01},
			"wonly":    {0x02},
		})
		require.NoError(t, err)
	})

	t.Run("one mismatch rejected", func(t *testing.T) {
		err := svc.VerifyStyleChecksums(context.Background(), 7, map[string][]byte{
			"sideways": {0x01},
			"wonly":    {0xFF},
		})
		require.ErrorIs(t, err, ErrChecksumMismatch)
	})
}

func TestResolveStyleBits(t *testing.T) {
	repo := newFakeRepo()
	repo.checksums[checksumKey{7, ChecksumStyle, "sideways"}] = &Checksum{PluginVersionID: 7, Kind: ChecksumStyle, Subject: "sideways", Checksum: []byte{0x01}, Bit: 0}
	repo.checksums[checksumKey{7, ChecksumStyle, "wonly"}] = &Checksum{PluginVersionID: 7, Kind: ChecksumStyle, Subject: "wonly", Checksum: []byte{0x02}, Bit: 1}
	svc := NewService(repo)

	t.Run("known styles combine into a bitset", func(t *testing.T) {
		bits, err := svc.ResolveStyleBits(context.Background(), 7, []string{"sideways", "wonly"})
		require.NoError(t, err)
		require.Equal(t, uint64(0b11), bits)
	})

	t.Run("single known style sets only its bit", func(t *testing.T) {
		bits, err := svc.ResolveStyleBits(context.Background(), 7, []string{"wonly"})
		require.NoError(t, err)
		require.Equal(t, uint64(0b10), bits)
	})

	t.Run("unknown style errors", func(t *testing.T) {
		_, err := svc.ResolveStyleBits(context.Background(), 7, []string{"unknown"})
		require.ErrorIs(t, err, ErrChecksumMismatch)
	})
}
