package ws

import (
	"github.com/kz-league/backend/internal/steamid"
)

// PlayerInfo is the in-memory fragment of session state kept per connected
// player, updated by the PlayerJoin/PlayerLeave handlers.
type PlayerInfo struct {
	Name string
}

// Session is one WS connection's mutable state. It is only ever touched
// from the single goroutine running that connection's dispatch loop, so it
// carries no mutex.
type Session struct {
	ServerID        uint16
	PluginVersionID uint64
	Local           bool
	Players         map[steamid.SteamID]PlayerInfo
}

// newSession seeds session state from a completed Hello handshake.
func newSession(serverID uint16, pluginVersionID uint64, local bool, hello HelloPayload) *Session {
	players := make(map[steamid.SteamID]PlayerInfo, len(hello.Players))
	for id, info := range hello.Players {
		if sid, err := steamid.FromUint64(id); err == nil {
			players[sid] = PlayerInfo{Name: info.Name}
		}
	}
	return &Session{
		ServerID:        serverID,
		PluginVersionID: pluginVersionID,
		Local:           local,
		Players:         players,
	}
}
