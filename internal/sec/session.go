package sec

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"connectrpc.com/authn"

	"github.com/stolasapp/albumtest/internal/storage"
	"github.com/stolasapp/albumtest/internal/storage/db"
)

// CookieName is the cookie holding the session token.
const CookieName = "albumtest_session"

const tokenBytes = 32

// Authenticate checks login and password against the user store. Unknown
// users and wrong passwords yield the same unauthenticated error.
func Authenticate(ctx context.Context, users storage.Users, login, password string) (db.User, error) {
	user, err := users.GetUserByName(ctx, login)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return db.User{}, authn.Errorf("invalid username or password")
	case err != nil:
		return db.User{}, err
	}
	if err = ComparePassword(password, user.PasswordHash); err != nil {
		return db.User{}, authn.Errorf("invalid username or password")
	}
	return user, nil
}

// NewToken returns a random URL-safe session token.
func NewToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Login starts a session for user and returns the cookie to set.
func Login(ctx context.Context, sessions storage.Sessions, user db.User) (*http.Cookie, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}
	if err = sessions.CreateSession(ctx, token, user.ID); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(storage.SessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// ResolveSession returns the user owning the session cookie on req. An
// unauthenticated error is returned if the cookie is missing, unknown or
// expired.
func ResolveSession(ctx context.Context, sessions storage.Sessions, req *http.Request) (db.User, error) {
	cookie, err := req.Cookie(CookieName)
	if err != nil {
		return db.User{}, authn.Errorf("no session")
	}
	user, err := sessions.GetSessionUser(ctx, cookie.Value)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return db.User{}, authn.Errorf("session expired")
	case err != nil:
		return db.User{}, err
	}
	return user, nil
}

// GetAuthenticatedUser returns the user information for the authenticated user.
// Returns a zero-value User if the context has no authenticated user.
func GetAuthenticatedUser(ctx context.Context) db.User {
	if user, ok := authn.GetInfo(ctx).(db.User); ok {
		return user
	}
	return db.User{}
}

// SetAuthenticatedUser sets the user information for an authenticated user.
func SetAuthenticatedUser(ctx context.Context, user db.User) context.Context {
	return authn.SetInfo(ctx, user)
}
