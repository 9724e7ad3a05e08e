// Copyright 2026 The Caseline Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds, carried in the "kind" claim so the platform can tell a
// backend credential from a user credential signed with the same secret.
const (
	KindServer = "server"
	KindClient = "client"
)

// Default token lifetimes. Server tokens are minted per request, so a
// short lifetime costs nothing. Client tokens live in a front-end for
// the duration of a chat session.
const (
	DefaultServerTTL = 5 * time.Minute
	DefaultClientTTL = 24 * time.Hour
)

// Errors returned by Verify and related functions.
var (
	ErrInvalidSignature = errors.New("token: invalid signature")
	ErrTokenExpired     = errors.New("token: token has expired")
	ErrAppIDMismatch    = errors.New("token: application ID does not match")
	ErrWrongAlgorithm   = errors.New("token: unexpected signing algorithm")
)

// Claims is the JWT payload for both token shapes. Server tokens leave
// Subject empty; client tokens set it to the user's identifier.
type Claims struct {
	jwt.RegisteredClaims

	// AppID identifies the platform application this token is scoped
	// to. A token for one application is rejected by another.
	AppID string `json:"app_id"`

	// Kind is KindServer or KindClient.
	Kind string `json:"kind"`
}

// Issuer mints server and client tokens for one platform application.
type Issuer struct {
	appID  string
	secret []byte

	serverTTL time.Duration
	clientTTL time.Duration

	// now is the clock used when minting. Overridden in tests.
	now func() time.Time
}

// IssuerConfig configures an Issuer.
type IssuerConfig struct {
	// AppID is the platform application ID. Required.
	AppID string

	// Secret is the shared signing secret. Required.
	Secret []byte

	// ServerTTL and ClientTTL override the default token lifetimes
	// when non-zero.
	ServerTTL time.Duration
	ClientTTL time.Duration
}

// NewIssuer creates an Issuer from configuration.
func NewIssuer(config IssuerConfig) (*Issuer, error) {
	if config.AppID == "" {
		return nil, fmt.Errorf("token: AppID is required")
	}
	if len(config.Secret) == 0 {
		return nil, fmt.Errorf("token: Secret is required")
	}

	serverTTL := config.ServerTTL
	if serverTTL == 0 {
		serverTTL = DefaultServerTTL
	}
	clientTTL := config.ClientTTL
	if clientTTL == 0 {
		clientTTL = DefaultClientTTL
	}

	return &Issuer{
		appID:     config.AppID,
		secret:    config.Secret,
		serverTTL: serverTTL,
		clientTTL: clientTTL,
		now:       time.Now,
	}, nil
}

// ServerToken mints a backend-to-platform token. Called once per
// outbound REST request.
func (i *Issuer) ServerToken() (string, error) {
	return i.sign(KindServer, "", i.serverTTL)
}

// ClientToken mints a user-scoped token for a front-end. subjectID is
// the user's identifier on the platform.
func (i *Issuer) ClientToken(subjectID string) (string, error) {
	if subjectID == "" {
		return "", fmt.Errorf("token: subject ID is required for client tokens")
	}
	return i.sign(KindClient, subjectID, i.clientTTL)
}

func (i *Issuer) sign(kind, subject string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		AppID: i.appID,
		Kind:  kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: signing %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its
// decoded claims.
func Verify(secret []byte, tokenString string) (*Claims, error) {
	return VerifyAt(secret, tokenString, time.Now())
}

// VerifyAt is like Verify but accepts an explicit time for expiry
// checks. This supports deterministic testing.
func VerifyAt(secret []byte, tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrWrongAlgorithm
	default:
		return nil, fmt.Errorf("token: parsing token: %w", err)
	}
}

// VerifyForApp combines Verify with an application ID check: verify
// signature, check expiry, and confirm the token is scoped to this
// application.
func VerifyForApp(secret []byte, tokenString, expectedAppID string) (*Claims, error) {
	return VerifyForAppAt(secret, tokenString, expectedAppID, time.Now())
}

// VerifyForAppAt is like VerifyForApp but accepts an explicit time.
func VerifyForAppAt(secret []byte, tokenString, expectedAppID string, now time.Time) (*Claims, error) {
	claims, err := VerifyAt(secret, tokenString, now)
	if err != nil {
		return nil, err
	}
	if claims.AppID != expectedAppID {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrAppIDMismatch, claims.AppID, expectedAppID)
	}
	return claims, nil
}
