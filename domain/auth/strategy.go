package auth

import (
	"context"
	"strconv"

	"github.com/kz-league/backend/domain/server"
	"github.com/kz-league/backend/internal/permission"
)

// Strategy is a composable authorization predicate evaluated against a
// Session and the resolved path parameter of the request it gates. Each
// strategy is a small struct type implementing Strategy; Either composes
// two Strategy interface values.
type Strategy interface {
	Allow(ctx context.Context, session *Session, pathParam string) (bool, error)
}

// None always succeeds; used for endpoints gated only by authentication,
// not authorization.
type None struct{}

// Allow implements Strategy.
func (None) Allow(context.Context, *Session, string) (bool, error) { return true, nil }

// HasPermissions succeeds iff the session's permission set is a superset of
// Required.
type HasPermissions struct {
	Required permission.Set
}

// Allow implements Strategy.
func (h HasPermissions) Allow(_ context.Context, session *Session, _ string) (bool, error) {
	if session == nil {
		return false, nil
	}
	return session.User.Permissions.Contains(h.Required), nil
}

// IsServerOwner succeeds iff pathParam names a server owned by the
// session's user, or the user holds the Servers permission.
type IsServerOwner struct {
	Servers server.Service
}

// Allow implements Strategy.
func (i IsServerOwner) Allow(ctx context.Context, session *Session, pathParam string) (bool, error) {
	if session == nil {
		return false, nil
	}
	if session.User.Permissions.Has(permission.Servers) {
		return true, nil
	}

	srv, err := i.Servers.GetByName(ctx, pathParam)
	if err != nil {
		srv, err = resolveServerByIDParam(ctx, i.Servers, pathParam)
		if err != nil {
			return false, nil
		}
	}
	return srv.OwnerID == session.User.SteamID, nil
}

func resolveServerByIDParam(ctx context.Context, svc server.Service, pathParam string) (*server.Server, error) {
	id, err := parseServerID(pathParam)
	if err != nil {
		return nil, err
	}
	return svc.Get(ctx, id)
}

func parseServerID(raw string) (uint16, error) {
	id, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, server.ErrNotFound
	}
	return uint16(id), nil
}

// Either succeeds if A succeeds, falling back to B. A is tried first.
type Either struct {
	A Strategy
	B Strategy
}

// Allow implements Strategy.
func (e Either) Allow(ctx context.Context, session *Session, pathParam string) (bool, error) {
	ok, err := e.A.Allow(ctx, session, pathParam)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	return e.B.Allow(ctx, session, pathParam)
}
