package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/domain/server"
	"github.com/kz-league/backend/internal/permission"
	"github.com/kz-league/backend/internal/steamid"
)

// fakeServerService implements server.Service, stubbing only what
// IsServerOwner needs; anything else panics so an accidental extra call
// fails loudly.
type fakeServerService struct {
	server.Service
	byName map[string]*server.Server
	byID   map[uint16]*server.Server
}

func (f *fakeServerService) GetByName(_ context.Context, name string) (*server.Server, error) {
	if s, ok := f.byName[name]; ok {
		return s, nil
	}
	return nil, server.ErrNotFound
}

func (f *fakeServerService) Get(_ context.Context, id uint16) (*server.Server, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, server.ErrNotFound
}

func newFakeServers(servers ...*server.Server) *fakeServerService {
	f := &fakeServerService{byName: map[string]*server.Server{}, byID: map[uint16]*server.Server{}}
	for _, s := range servers {
		f.byName[s.Name] = s
		f.byID[s.ID] = s
	}
	return f
}

func TestHasPermissions_Allow(t *testing.T) {
	t.Run("nil session never allowed", func(t *testing.T) {
		strat := HasPermissions{Required: permission.Servers}
		ok, err := strat.Allow(context.Background(), nil, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("superset of required permissions allowed", func(t *testing.T) {
		session := &Session{User: User{Permissions: permission.Servers | permission.MapPool}}
		strat := HasPermissions{Required: permission.Servers}
		ok, err := strat.Allow(context.Background(), session, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing required bit denied", func(t *testing.T) {
		session := &Session{User: User{Permissions: permission.MapPool}}
		strat := HasPermissions{Required: permission.Servers}
		ok, err := strat.Allow(context.Background(), session, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestIsServerOwner_Allow(t *testing.T) {
	owner, err := steamid.FromUint64(76561197960265729)
	require.NoError(t, err)
	other, err := steamid.FromUint64(76561197960265730)
	require.NoError(t, err)
	srv := &server.Server{ID: 1, Name: "eu-1", OwnerID: owner}

	t.Run("owner matches by name param", func(t *testing.T) {
		session := &Session{User: User{SteamID: owner}}
		strat := IsServerOwner{Servers: newFakeServers(srv)}
		ok, err := strat.Allow(context.Background(), session, "eu-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("owner matches by numeric id param", func(t *testing.T) {
		session := &Session{User: User{SteamID: owner}}
		strat := IsServerOwner{Servers: newFakeServers(srv)}
		ok, err := strat.Allow(context.Background(), session, "1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		session := &Session{User: User{SteamID: other}}
		strat := IsServerOwner{Servers: newFakeServers(srv)}
		ok, err := strat.Allow(context.Background(), session, "eu-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Servers permission bypasses ownership check", func(t *testing.T) {
		session := &Session{User: User{SteamID: other, Permissions: permission.Servers}}
		strat := IsServerOwner{Servers: newFakeServers(srv)}
		ok, err := strat.Allow(context.Background(), session, "unknown-server")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("nil session never allowed", func(t *testing.T) {
		strat := IsServerOwner{Servers: newFakeServers(srv)}
		ok, err := strat.Allow(context.Background(), nil, "eu-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEither_Allow(t *testing.T) {
	session := &Session{User: User{Permissions: permission.MapPool}}

	t.Run("A succeeding short-circuits B", func(t *testing.T) {
		strat := Either{A: None{}, B: HasPermissions{Required: permission.Admin}}
		ok, err := strat.Allow(context.Background(), session, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("falls back to B when A fails", func(t *testing.T) {
		strat := Either{
			A: HasPermissions{Required: permission.Admin},
			B: HasPermissions{Required: permission.MapPool},
		}
		ok, err := strat.Allow(context.Background(), session, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("both fail denies", func(t *testing.T) {
		strat := Either{
			A: HasPermissions{Required: permission.Admin},
			B: HasPermissions{Required: permission.Servers},
		}
		ok, err := strat.Allow(context.Background(), session, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
