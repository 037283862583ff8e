// internal/middleware/jwt.go
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"socialite/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenDenylist records tokens invalidated by logout. A token present in the
// denylist fails authentication regardless of its signature or expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Claims represents the JWT claims for our application
type Claims struct {
	AccountID uuid.UUID `json:"account_id"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates session tokens.
type Authenticator struct {
	secret   []byte
	tokenTTL time.Duration
	denylist TokenDenylist
}

func NewAuthenticator(secret string, tokenTTL time.Duration, denylist TokenDenylist) *Authenticator {
	return &Authenticator{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		denylist: denylist,
	}
}

// GenerateToken creates a new JWT token for the given account ID
func (a *Authenticator) GenerateToken(accountID uuid.UUID) (string, error) {
	expirationTime := time.Now().Add(a.tokenTTL)

	claims := &Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			// A fresh jti per token keeps two logins in the same second from
			// producing identical strings; logout denylists the raw string,
			// so a repeated string would lock the new session out too.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "socialite-api",
			Subject:   accountID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates the provided JWT token
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// writeAuthError emits the JSON error envelope the handlers use, so auth
// failures look like every other error response.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	body.Error.Code = code
	body.Error.Message = message
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode auth error", "error", err)
	}
}

// AuthMiddleware validates the bearer token, rejects denylisted tokens and
// places the authenticated account ID and the raw token in the request
// context. Routes mounted under it always see an authenticated identity.
func (a *Authenticator) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, http.StatusUnauthorized, utils.ErrInvalidToken, "authorization header required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, http.StatusUnauthorized, utils.ErrInvalidToken, "invalid authorization format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := a.ValidateToken(tokenString)
		if err != nil {
			writeAuthError(w, http.StatusUnauthorized, utils.ErrInvalidToken, "invalid token")
			return
		}

		if time.Now().After(claims.ExpiresAt.Time) {
			writeAuthError(w, http.StatusUnauthorized, utils.ErrInvalidToken, "token expired")
			return
		}

		// Denylist check comes last: an otherwise valid token that was
		// invalidated by logout must still be rejected.
		revoked, err := a.denylist.IsRevoked(r.Context(), tokenString)
		if err != nil {
			slog.Error("denylist lookup failed", "error", err)
			writeAuthError(w, http.StatusInternalServerError, utils.ErrDatabase, "failed to verify token")
			return
		}
		if revoked {
			writeAuthError(w, http.StatusUnauthorized, utils.ErrInvalidToken, "token is no longer valid")
			return
		}

		ctx := r.Context()
		ctx = SetAccountIDInContext(ctx, claims.AccountID)
		ctx = SetTokenInContext(ctx, tokenString, claims.ExpiresAt.Time)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Revoke places a token in the denylist until its natural expiry.
func (a *Authenticator) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	return a.denylist.Revoke(ctx, token, expiresAt)
}

// Define a custom context key type to avoid collisions
type contextKey string

// AccountIDKey is the key used to store the account ID in the context
const AccountIDKey contextKey = "account_id"

// TokenKey is the key used to store the presented token in the context
const TokenKey contextKey = "token"

type tokenInfo struct {
	token     string
	expiresAt time.Time
}

// SetAccountIDInContext saves the account ID in the request context
func SetAccountIDInContext(ctx context.Context, accountID uuid.UUID) context.Context {
	return context.WithValue(ctx, AccountIDKey, accountID)
}

// GetAccountIDFromContext retrieves the account ID from the context
func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	accountID, ok := ctx.Value(AccountIDKey).(uuid.UUID)
	return accountID, ok
}

// SetTokenInContext saves the presented token and its expiry, so logout can
// denylist exactly the token used on the request.
func SetTokenInContext(ctx context.Context, token string, expiresAt time.Time) context.Context {
	return context.WithValue(ctx, TokenKey, tokenInfo{token: token, expiresAt: expiresAt})
}

// GetTokenFromContext retrieves the presented token and its expiry.
func GetTokenFromContext(ctx context.Context) (string, time.Time, bool) {
	info, ok := ctx.Value(TokenKey).(tokenInfo)
	return info.token, info.expiresAt, ok
}
