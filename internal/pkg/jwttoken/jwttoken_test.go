package jwttoken_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kz-league/backend/internal/pkg/jwttoken"
)

type serverClaims struct {
	ServerID        uint16 `json:"server_id"`
	PluginVersionID uint32 `json:"plugin_version_id"`
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	payload := serverClaims{ServerID: 7, PluginVersionID: 42}

	token, err := jwttoken.Encode(payload, secret, 30*time.Minute)
	require.NoError(t, err)

	decoded, err := jwttoken.Decode[serverClaims](token, secret)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodeRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := jwttoken.Encode(serverClaims{ServerID: 1}, secret, -time.Second)
	require.NoError(t, err)

	_, err = jwttoken.Decode[serverClaims](token, secret)
	require.ErrorIs(t, err, jwttoken.ErrExpired)
}
