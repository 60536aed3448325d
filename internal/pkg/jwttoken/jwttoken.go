// Package jwttoken wraps golang-jwt/jwt/v5 in a generic {payload, exp}
// envelope, parameterised over an arbitrary payload type.
package jwttoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpired is returned when decoding a token whose exp claim is in the
// past.
var ErrExpired = errors.New("jwttoken: token expired")

// claims carries the caller's payload as a single JSON-encoded custom
// claim, alongside the registered exp claim golang-jwt manages natively.
type claims struct {
	Payload json.RawMessage `json:"payload"`
	jwt.RegisteredClaims
}

// Encode signs payload with secret using HS256, setting exp = now + ttl.
func Encode[T any](payload T, secret []byte, ttl time.Duration) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("jwttoken: marshal payload: %w", err)
	}

	now := time.Now()
	c := claims{
		Payload: raw,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(secret)
}

// Decode validates the signature and expiry, then unmarshals the payload
// into T. Expired tokens fail with ErrExpired before the payload is ever
// touched.
func Decode[T any](tokenString string, secret []byte) (T, error) {
	var zero T
	var c claims

	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("jwttoken: unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return zero, ErrExpired
		}
		return zero, fmt.Errorf("jwttoken: parse: %w", err)
	}
	if !token.Valid {
		return zero, fmt.Errorf("jwttoken: invalid token")
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return zero, ErrExpired
	}

	var payload T
	if err := json.Unmarshal(c.Payload, &payload); err != nil {
		return zero, fmt.Errorf("jwttoken: unmarshal payload: %w", err)
	}
	return payload, nil
}
