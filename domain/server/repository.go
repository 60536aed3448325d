package server

import (
	"context"

	"github.com/kz-league/backend/internal/steamid"
)

// ListFilters scopes the GET /servers listing.
type ListFilters struct {
	Limit  int
	Offset int
}

// Repository defines data access for the server registry.
type Repository interface {
	Create(ctx context.Context, s *Server) error
	GetByID(ctx context.Context, id uint16) (*Server, error)
	GetByName(ctx context.Context, name string) (*Server, error)

	// ListWithAccessKey is used by the key-exchange flow: the stored form
	// is a bcrypt hash, so no lookup by hash is possible; this instead loads
	// every server with a configured key and the service layer does the
	// bcrypt compare. Kept
	// small since the servers table is expected to stay in the low
	// thousands of rows at most.
	ListWithAccessKey(ctx context.Context) ([]*Server, error)

	Update(ctx context.Context, s *Server) error
	SetAccessKeyHash(ctx context.Context, id uint16, hash *string) error
	List(ctx context.Context, filters ListFilters) ([]*Server, int64, error)

	// IsOwner reports whether ownerID owns server id, used by the
	// IsServerOwner authorization strategy.
	IsOwner(ctx context.Context, id uint16, ownerID steamid.SteamID) (bool, error)
}
