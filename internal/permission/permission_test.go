package permission_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/internal/permission"
)

func TestIterCollectRoundTrip(t *testing.T) {
	cases := []permission.Set{
		0,
		permission.Servers,
		permission.UserPermissions | permission.MapPool,
		permission.Servers | permission.PlayerBans | permission.MapPool,
		permission.Admin,
	}

	for _, p := range cases {
		assert.Equal(t, p, permission.Collect(p.Iter()))
	}
}

func TestContains(t *testing.T) {
	p := permission.Servers | permission.MapPool
	assert.True(t, p.Contains(permission.Servers))
	assert.False(t, p.Contains(permission.PlayerBans))
	assert.True(t, p.Contains(permission.Servers|permission.MapPool))
}

func TestJSONRoundTrip(t *testing.T) {
	p := permission.Servers | permission.PlayerBans

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `["servers","player-bans"]`, string(data))

	var decoded permission.Set
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)

	var fromInt permission.Set
	require.NoError(t, json.Unmarshal([]byte(`10`), &fromInt))
	assert.Equal(t, p, fromInt)
}

func TestUnmarshalUnknownNameErrors(t *testing.T) {
	var p permission.Set
	err := json.Unmarshal([]byte(`["not-a-real-permission"]`), &p)
	assert.Error(t, err)
}
