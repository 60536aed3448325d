package server

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kz-league/backend/internal/steamid"
)

// Service is the server-registry business logic: approval, key lifecycle,
// ownership.
type Service interface {
	Approve(ctx context.Context, id uint16, name, host string, port uint16, ownerID steamid.SteamID) (server *Server, accessKey string, err error)
	RotateKey(ctx context.Context, id uint16) (accessKey string, err error)
	ClearKey(ctx context.Context, id uint16) error
	ReassignOwner(ctx context.Context, id uint16, newOwner steamid.SteamID) error

	Get(ctx context.Context, id uint16) (*Server, error)
	GetByName(ctx context.Context, name string) (*Server, error)
	List(ctx context.Context, filters ListFilters) ([]*Server, int64, error)

	// ResolveAccessKey finds the server bound to the given opaque access
	// key. Used by the plugin-auth key exchange.
	ResolveAccessKey(ctx context.Context, accessKey string) (*Server, error)

	IsOwner(ctx context.Context, id uint16, candidate steamid.SteamID) (bool, error)
}

type service struct {
	repo Repository
}

// NewService constructs the server Service over a Repository.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// generateAccessKey produces a 128-bit opaque token, base32-encoded without
// padding so it reads cleanly in config files and Authorization headers.
func generateAccessKey() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("server: generate access key: %w", err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw[:]), nil
}

func hashAccessKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("server: hash access key: %w", err)
	}
	return string(hash), nil
}

func (s *service) Approve(ctx context.Context, id uint16, name, host string, port uint16, ownerID steamid.SteamID) (*Server, string, error) {
	accessKey, err := generateAccessKey()
	if err != nil {
		return nil, "", err
	}
	hash, err := hashAccessKey(accessKey)
	if err != nil {
		return nil, "", err
	}

	entity := &Server{
		ID:            id,
		Name:          name,
		Host:          host,
		Port:          port,
		OwnerID:       ownerID,
		AccessKeyHash: &hash,
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, "", err
	}
	return entity, accessKey, nil
}

func (s *service) RotateKey(ctx context.Context, id uint16) (string, error) {
	accessKey, err := generateAccessKey()
	if err != nil {
		return "", err
	}
	hash, err := hashAccessKey(accessKey)
	if err != nil {
		return "", err
	}
	if err := s.repo.SetAccessKeyHash(ctx, id, &hash); err != nil {
		return "", err
	}
	return accessKey, nil
}

func (s *service) ClearKey(ctx context.Context, id uint16) error {
	return s.repo.SetAccessKeyHash(ctx, id, nil)
}

func (s *service) ReassignOwner(ctx context.Context, id uint16, newOwner steamid.SteamID) error {
	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	entity.OwnerID = newOwner
	return s.repo.Update(ctx, entity)
}

func (s *service) Get(ctx context.Context, id uint16) (*Server, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByName(ctx context.Context, name string) (*Server, error) {
	return s.repo.GetByName(ctx, name)
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]*Server, int64, error) {
	return s.repo.List(ctx, filters)
}

func (s *service) ResolveAccessKey(ctx context.Context, accessKey string) (*Server, error) {
	candidates, err := s.repo.ListWithAccessKey(ctx)
	if err != nil {
		return nil, err
	}
	for _, candidate := range candidates {
		if candidate.AccessKeyHash == nil {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(*candidate.AccessKeyHash), []byte(accessKey)) == nil {
			return candidate, nil
		}
	}
	return nil, ErrInvalidAccessKey
}

func (s *service) IsOwner(ctx context.Context, id uint16, candidate steamid.SteamID) (bool, error) {
	return s.repo.IsOwner(ctx, id, candidate)
}
