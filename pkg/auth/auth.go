package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

// JWTKey signs access tokens. Overridden from config at startup.
var JWTKey = []byte("bookhub-dev-key")

func SetKey(key string) {
	if key != "" {
		JWTKey = []byte(key)
	}
}

type Claims struct {
	Profile struct {
		UserID   int    `json:"userId"`
		Username string `json:"username"`
		IsAdmin  bool   `json:"isAdmin"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

type contextKey int

const (
	userKey contextKey = iota + 1
)

type User struct {
	ID       int
	Username string
	IsAdmin  bool
}

func SetAuthContext(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func FromContext(ctx context.Context) (User, error) {
	user, ok := ctx.Value(userKey).(User)
	if !ok {
		return User{}, errors.New("no user in context")
	}
	return user, nil
}
