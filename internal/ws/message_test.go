package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelope_RoundTrip(t *testing.T) {
	inner := HelloPayload{
		PluginVersion: "1.2.3",
		Map:           "kz_longjumps2",
		Players: map[uint64]HelloPlayerInfo{
			76561197960265729: {Name: "alice"},
		},
	}
	payload, err := json.Marshal(inner)
	require.NoError(t, err)

	env := Envelope{ID: 42, Kind: KindHello, Payload: payload}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, uint64(42), decoded.ID)
	require.Equal(t, KindHello, decoded.Kind)

	var decodedInner HelloPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &decodedInner))
	require.Equal(t, inner.PluginVersion, decodedInner.PluginVersion)
	require.Equal(t, inner.Map, decodedInner.Map)
	require.Equal(t, "alice", decodedInner.Players[76561197960265729].Name)
}

func TestEnvelope_UnsolicitedFrameHasZeroID(t *testing.T) {
	payload, err := json.Marshal(MapChangePayload{NewMap: "kz_grindy2"})
	require.NoError(t, err)

	env := Envelope{Kind: KindMapChange, Payload: payload}
	data, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Zero(t, decoded.ID)
	require.Equal(t, KindMapChange, decoded.Kind)
}

func TestNewRecordAckPayload_OmitsProWhenZero(t *testing.T) {
	ack := NewRecordAckPayload{RecordID: "abc", NubRank: 1, NubPoints: 1000}
	data, err := json.Marshal(ack)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	_, hasProRank := decoded["pro_rank"]
	_, hasProPoints := decoded["pro_points"]
	require.False(t, hasProRank)
	require.False(t, hasProPoints)
}
