package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kz-league/backend/domain/player"
	"github.com/kz-league/backend/domain/server"
	"github.com/kz-league/backend/internal/pkg/jwttoken"
	"github.com/kz-league/backend/internal/steamid"
)

const steamOpenIDEndpoint = "https://steamcommunity.com/openid/login"

// Service implements the Steam OpenID round trip, browser-session
// lifecycle, JWT codec, and the server access-token exchange.
type Service interface {
	LoginURL(returnTo string) string

	// VerifyOpenID re-posts the callback's query parameters to Steam with
	// openid.mode rewritten to check_authentication and extracts the
	// SteamID from openid.claimed_id on success.
	VerifyOpenID(ctx context.Context, params url.Values) (steamid.SteamID, error)

	Login(ctx context.Context, id steamid.SteamID, name string, ip *string) (*Session, error)
	Logout(ctx context.Context, sessionID uuid.UUID, all bool) error

	// ExtractSession resolves a kz-auth cookie value to a live, renewed
	// Session, or ErrSessionNotFound.
	ExtractSession(ctx context.Context, cookieValue string) (*Session, error)

	EncodeJWT(payload any, ttl time.Duration) (string, error)

	// RefreshKey implements the server plugin-auth key exchange.
	RefreshKey(ctx context.Context, apiKey, pluginVersion string) (string, error)
}

// PluginVersionResolver resolves a SemVer string to the catalogue row id
// backing a server's plugin build, implemented by domain/plugin.
type PluginVersionResolver interface {
	ResolveVersion(ctx context.Context, semver string) (id uint64, err error)
}

type service struct {
	sessions     Repository
	players      player.Service
	servers      server.Service
	pluginVers   PluginVersionResolver
	jwtSecret    []byte
	publicURL    string
	httpClient   *http.Client
}

// NewService constructs the auth Service.
func NewService(sessions Repository, players player.Service, servers server.Service, pluginVers PluginVersionResolver, jwtSecret []byte, publicURL string) Service {
	return &service{
		sessions:   sessions,
		players:    players,
		servers:    servers,
		pluginVers: pluginVers,
		jwtSecret:  jwtSecret,
		publicURL:  strings.TrimRight(publicURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *service) LoginURL(returnTo string) string {
	v := url.Values{}
	v.Set("openid.ns", "http://specs.openid.net/auth/2.0")
	v.Set("openid.mode", "checkid_setup")
	v.Set("openid.return_to", fmt.Sprintf("%s/auth/callback?redirect_to=%s", s.publicURL, url.QueryEscape(returnTo)))
	v.Set("openid.realm", s.publicURL)
	v.Set("openid.identity", "http://specs.openid.net/auth/2.0/identifier_select")
	v.Set("openid.claimed_id", "http://specs.openid.net/auth/2.0/identifier_select")
	return steamOpenIDEndpoint + "?" + v.Encode()
}

func (s *service) VerifyOpenID(ctx context.Context, params url.Values) (steamid.SteamID, error) {
	verify := url.Values{}
	for k, vs := range params {
		if len(vs) > 0 {
			verify.Set(k, vs[0])
		}
	}
	verify.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, steamOpenIDEndpoint, strings.NewReader(verify.Encode()))
	if err != nil {
		return 0, fmt.Errorf("auth: build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("auth: steam openid request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("auth: read steam openid response: %w", err)
	}
	if !bytes.Contains(body, []byte("is_valid:true")) {
		return 0, ErrInvalidOpenIDResponse
	}

	claimedID := params.Get("openid.claimed_id")
	segments := strings.Split(strings.TrimRight(claimedID, "/"), "/")
	last := segments[len(segments)-1]
	raw, err := strconv.ParseUint(last, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: claimed_id %q", ErrInvalidOpenIDResponse, claimedID)
	}
	id, err := steamid.FromUint64(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidOpenIDResponse, err)
	}
	return id, nil
}

func (s *service) Login(ctx context.Context, id steamid.SteamID, name string, ip *string) (*Session, error) {
	p, err := s.players.Join(ctx, id, name, ip)
	if err != nil {
		return nil, fmt.Errorf("auth: login: %w", err)
	}

	sessionID := uuid.Must(uuid.NewV7())
	expiresAt := time.Now().Add(BrowserSessionTTL)
	if err := s.sessions.Create(ctx, sessionID, id, expiresAt); err != nil {
		return nil, fmt.Errorf("auth: login: create session: %w", err)
	}

	return &Session{
		ID:        sessionID,
		User:      User{SteamID: id, Permissions: p.Permissions},
		ExpiresAt: expiresAt,
	}, nil
}

func (s *service) Logout(ctx context.Context, sessionID uuid.UUID, all bool) error {
	if !all {
		return s.sessions.Expire(ctx, sessionID, time.Now())
	}
	row, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	steamIDVal, err := steamid.FromUint64(row.PlayerID)
	if err != nil {
		return fmt.Errorf("auth: logout: %w", err)
	}
	return s.sessions.ExpireAllForPlayer(ctx, steamIDVal, time.Now())
}

func (s *service) ExtractSession(ctx context.Context, cookieValue string) (*Session, error) {
	sessionID, err := uuid.Parse(cookieValue)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	row, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if !row.ExpiresAt.After(time.Now()) {
		return nil, ErrSessionNotFound
	}

	steamIDVal, err := steamid.FromUint64(row.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("auth: extract session: %w", err)
	}
	p, err := s.players.Get(ctx, steamIDVal)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	renewedAt := time.Now().Add(BrowserSessionTTL)
	if err := s.sessions.Renew(ctx, sessionID, renewedAt); err != nil {
		return nil, fmt.Errorf("auth: extract session: renew: %w", err)
	}

	return &Session{
		ID:        sessionID,
		User:      User{SteamID: steamIDVal, Permissions: p.Permissions},
		ExpiresAt: renewedAt,
	}, nil
}

func (s *service) EncodeJWT(payload any, ttl time.Duration) (string, error) {
	return jwttoken.Encode(payload, s.jwtSecret, ttl)
}

func (s *service) RefreshKey(ctx context.Context, apiKey, pluginVersion string) (string, error) {
	srv, err := s.servers.ResolveAccessKey(ctx, apiKey)
	if err != nil {
		return "", ErrInvalidAPIKey
	}

	pluginVersionID, err := s.pluginVers.ResolveVersion(ctx, pluginVersion)
	if err != nil {
		return "", ErrUnknownPluginVersion
	}

	return jwttoken.Encode(ServerTokenClaims{
		ServerID:        srv.ID,
		PluginVersionID: pluginVersionID,
	}, s.jwtSecret, ServerTokenTTL)
}

// DecodeServerToken validates and decodes a server access JWT minted by
// RefreshKey.
func DecodeServerToken(tokenString string, secret []byte) (ServerTokenClaims, error) {
	return jwttoken.Decode[ServerTokenClaims](tokenString, secret)
}
