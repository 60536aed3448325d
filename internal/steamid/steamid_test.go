package steamid_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/internal/steamid"
)

func TestRoundTripAcrossForms(t *testing.T) {
	samples := []uint64{
		steamid.MinSteamID64,
		steamid.MinSteamID64 + 1,
		76561197980265729,
		76561198132612090,
		steamid.MaxSteamID64,
	}

	for _, raw := range samples {
		id, err := steamid.FromUint64(raw)
		require.NoError(t, err)

		parsedFromString, err := steamid.Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsedFromString)

		parsedFromSteam3, err := steamid.Parse(id.Steam3())
		require.NoError(t, err)
		assert.Equal(t, id, parsedFromSteam3)

		fromU32, err := steamid.FromUint32(id.Uint32())
		require.NoError(t, err)
		assert.Equal(t, id, fromU32)
	}
}

func TestZeroValueIsInvalid(t *testing.T) {
	var zero steamid.SteamID
	assert.False(t, zero.Valid())
}

func TestOutOfRangeRejected(t *testing.T) {
	_, err := steamid.FromUint64(steamid.MinSteamID64 - 1)
	require.Error(t, err)

	_, err = steamid.FromUint64(steamid.MaxSteamID64 + 1)
	require.Error(t, err)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "not-a-steamid", "STEAM_1:9", "[U:1:]"} {
		_, err := steamid.Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	id := steamid.New(1, 80589086)

	data, err := json.Marshal(id)
	require.NoError(t, err)

	var decoded steamid.SteamID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	var fromNumber steamid.SteamID
	numeric, _ := json.Marshal(id.Uint64())
	require.NoError(t, json.Unmarshal(numeric, &fromNumber))
	assert.Equal(t, id, fromNumber)
}
