package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/domain/mapcatalog"
	"github.com/kz-league/backend/domain/plugin"
)

// fakeMaps stubs mapcatalog.Service, answering GetMapByName from a small
// in-memory table and panicking on anything else the handshake doesn't use.
type fakeMaps struct {
	mapcatalog.Service
	byName map[string]*mapcatalog.Map
}

func (f *fakeMaps) GetMapByName(_ context.Context, name string) (*mapcatalog.Map, error) {
	if m, ok := f.byName[name]; ok {
		return m, nil
	}
	return nil, mapcatalog.ErrMapNotFound
}

// fakePlugins stubs plugin.Service, resolving one known SemVer and treating
// every non-empty checksum as valid.
type fakePlugins struct {
	plugin.Service
	versions map[string]uint64
}

func (f *fakePlugins) ResolveVersion(_ context.Context, semver string) (uint64, error) {
	if id, ok := f.versions[semver]; ok {
		return id, nil
	}
	return 0, plugin.ErrUnknownVersion
}

func (f *fakePlugins) VerifyBinaryChecksum(_ context.Context, _ uint64, checksum []byte) error {
	if len(checksum) == 0 {
		return plugin.ErrChecksumMismatch
	}
	return nil
}

func testDeps() Deps {
	return Deps{
		Maps: &fakeMaps{byName: map[string]*mapcatalog.Map{
			"kz_longjumps2": {ID: 1, Name: "kz_longjumps2", GlobalStatus: mapcatalog.Global, Mappers: []string{"alice"}},
		}},
		Plugins: &fakePlugins{versions: map[string]uint64{"1.2.3": 7}},
		HeartbeatInterval: 15 * time.Second,
	}
}

func helloEnvelope(t *testing.T, hello HelloPayload) Envelope {
	t.Helper()
	payload, err := json.Marshal(hello)
	require.NoError(t, err)
	return Envelope{ID: 1, Kind: KindHello, Payload: payload}
}

func TestDoHandshake_Success(t *testing.T) {
	deps := testDeps()
	env := helloEnvelope(t, HelloPayload{
		PluginVersion:         "1.2.3",
		PluginVersionChecksum: []byte{0xAB},
		Map:                   "kz_longjumps2",
	})

	session, ack, err := doHandshake(context.Background(), deps, 1, env)
	require.NoError(t, err)
	require.Equal(t, uint64(7), session.PluginVersionID)
	require.NotNil(t, ack.Map)
	require.Equal(t, "kz_longjumps2", ack.Map.Name)
	require.Equal(t, 15, ack.HeartbeatIntervalSecs)
}

func TestDoHandshake_UnknownMapYieldsNilMapInfo(t *testing.T) {
	deps := testDeps()
	env := helloEnvelope(t, HelloPayload{
		PluginVersion:         "1.2.3",
		PluginVersionChecksum: []byte{0xAB},
		Map:                   "kz_unknown_map",
	})

	_, ack, err := doHandshake(context.Background(), deps, 1, env)
	require.NoError(t, err)
	require.Nil(t, ack.Map)
}

func TestDoHandshake_UnknownPluginVersionFails(t *testing.T) {
	deps := testDeps()
	env := helloEnvelope(t, HelloPayload{
		PluginVersion:         "9.9.9",
		PluginVersionChecksum: []byte{0xAB},
		Map:                   "kz_longjumps2",
	})

	_, _, err := doHandshake(context.Background(), deps, 1, env)
	require.ErrorIs(t, err, ErrHandshakeFailed)
}

func TestDoHandshake_BadChecksumFailsUnlessLocal(t *testing.T) {
	deps := testDeps()
	env := helloEnvelope(t, HelloPayload{
		PluginVersion:         "1.2.3",
		PluginVersionChecksum: nil,
		Map:                   "kz_longjumps2",
	})

	_, _, err := doHandshake(context.Background(), deps, 1, env)
	require.ErrorIs(t, err, ErrHandshakeFailed)

	deps.Local = true
	session, _, err := doHandshake(context.Background(), deps, 1, env)
	require.NoError(t, err)
	require.True(t, session.Local)
}

func TestDoHandshake_WrongFirstFrameKindFails(t *testing.T) {
	deps := testDeps()
	env := Envelope{ID: 1, Kind: KindPlayerJoin, Payload: []byte(`{}`)}

	_, _, err := doHandshake(context.Background(), deps, 1, env)
	require.ErrorIs(t, err, ErrHandshakeFailed)
}
