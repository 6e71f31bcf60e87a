// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package viewer assigns anonymous visitors a stable token so unique-hit
// counting can deduplicate repeat views without an account. The token is
// a secure cookie backed by a Valkey key with TTL expiry: when the key
// lapses, the visitor counts as new again.
package viewer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the viewer token cookie.
	CookieName = "mp_viewer"

	// DefaultTTL is how long a viewer token stays valid in Valkey.
	DefaultTTL = 30 * 24 * time.Hour

	// keyPrefix namespaces viewer keys in Valkey.
	keyPrefix = "viewer:"

	// idLength is the byte length of the random token (16 bytes = 32 hex chars).
	idLength = 16
)

// Store manages viewer token lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a viewer token store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: DefaultTTL}
}

// Token returns the request's viewer token, minting and setting one when
// the request carries none or carries one Valkey no longer knows. The
// returned token is always valid for the rest of the request.
func (s *Store) Token(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		known, err := s.client.Exists(ctx, keyPrefix+cookie.Value).Result()
		if err != nil {
			return "", fmt.Errorf("viewer token check: %w", err)
		}
		if known > 0 {
			// Sliding window: seeing the token keeps it alive.
			s.client.Expire(ctx, keyPrefix+cookie.Value, s.ttl)
			return cookie.Value, nil
		}
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("viewer token mint: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, time.Now().Unix(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("viewer token store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true behind TLS in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return token, nil
}

// generateToken creates a cryptographically random viewer identifier.
func generateToken() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
