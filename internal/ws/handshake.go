package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kz-league/backend/domain/mapcatalog"
)

// ErrHandshakeFailed wraps every handshake-stage failure; the caller closes
// the connection with close reason "unauthorized" regardless of the
// underlying cause.
var ErrHandshakeFailed = errors.New("ws: handshake failed")

// doHandshake validates the already-decoded Hello envelope: plugin version
// resolution, checksum verification, map lookup, session seeding, and the
// ack_hello reply.
func doHandshake(ctx context.Context, deps Deps, serverID uint16, env Envelope) (*Session, *AckHelloPayload, error) {
	if env.Kind != KindHello {
		return nil, nil, fmt.Errorf("%w: first frame was %q, not hello", ErrHandshakeFailed, env.Kind)
	}

	var hello HelloPayload
	if err := json.Unmarshal(env.Payload, &hello); err != nil {
		return nil, nil, fmt.Errorf("%w: malformed hello: %v", ErrHandshakeFailed, err)
	}

	pluginVersionID, err := deps.Plugins.ResolveVersion(ctx, hello.PluginVersion)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}

	if !deps.Local {
		if err := deps.Plugins.VerifyBinaryChecksum(ctx, pluginVersionID, hello.PluginVersionChecksum); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
		}
	}

	var mapInfo *MapInfoPayload
	if m, err := deps.Maps.GetMapByName(ctx, hello.Map); err == nil {
		mapInfo = &MapInfoPayload{ID: m.ID, Name: m.Name, GlobalStatus: string(m.GlobalStatus), Mappers: m.Mappers}
	} else if !errors.Is(err, mapcatalog.ErrMapNotFound) {
		return nil, nil, fmt.Errorf("%w: resolve map: %v", ErrHandshakeFailed, err)
	}

	ack := &AckHelloPayload{
		HeartbeatIntervalSecs: int(deps.HeartbeatInterval.Seconds()),
		Map:                   mapInfo,
	}

	session := newSession(serverID, pluginVersionID, deps.Local, hello)
	return session, ack, nil
}
