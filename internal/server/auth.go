package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gravitas-games/nectar/internal/config"
)

var (
	ErrSeatTaken    = errors.New("seat already claimed")
	ErrSeatRange    = errors.New("no such seat")
	ErrTokenRevoked = errors.New("token is revoked")
	ErrWrongSession = errors.New("token belongs to another session")
)

// SeatClaims are the claims of a seat token.
type SeatClaims struct {
	Seat      int    `json:"seat"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// SeatAuth issues and validates HS256 seat tokens.
type SeatAuth struct {
	secret []byte
	issuer string
	ttl    time.Duration
	store  SeatStore
	logger *slog.Logger
}

// NewSeatAuth creates the token authority for a configured secret.
func NewSeatAuth(cfg config.AuthConfig, store SeatStore, logger *slog.Logger) *SeatAuth {
	return &SeatAuth{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		store:  store,
		logger: logger,
	}
}

// Claim reserves seat in session and returns a signed token for it.
func (a *SeatAuth) Claim(ctx context.Context, sessionID string, seat int) (string, *SeatClaims, error) {
	now := time.Now()
	claims := &SeatClaims{
		Seat:      seat,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    a.issuer,
			Subject:   fmt.Sprintf("seat-%d", seat),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	ok, err := a.store.Claim(ctx, sessionID, seat, claims.ID, a.ttl)
	if err != nil {
		return "", nil, fmt.Errorf("failed to claim seat: %w", err)
	}
	if !ok {
		return "", nil, ErrSeatTaken
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Validate checks a seat token's signature, issuer, expiry, session and
// revocation.
func (a *SeatAuth) Validate(ctx context.Context, sessionID, tokenString string) (*SeatClaims, error) {
	claims := &SeatClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.SessionID != sessionID {
		return nil, ErrWrongSession
	}

	revoked, err := a.store.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Continue anyway if the store is down
		a.logger.Warn("failed to check revocation list", "err", err)
	} else if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Release revokes the token and frees its seat.
func (a *SeatAuth) Release(ctx context.Context, claims *SeatClaims) error {
	ttl := a.ttl
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := a.store.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return a.store.Release(ctx, claims.SessionID, claims.Seat)
}

// extractTokenFromHeader extracts the seat token from a request
func extractTokenFromHeader(r *http.Request) string {
	// Sec-WebSocket-Protocol first: "access_token, <token>"
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		parts := strings.Split(protocols, ",")
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == "access_token" {
			return strings.TrimSpace(parts[1])
		}
	}

	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	// Query parameter (less secure, but supported)
	return r.URL.Query().Get("token")
}
