package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/bookhub/pkg/auth"
	mw "github.com/avdeyev/bookhub/pkg/middleware"
)

func signToken(t *testing.T, username string, key []byte, expiresAt *jwt.NumericDate) string {
	t.Helper()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: expiresAt,
		},
	}
	claims.Profile.UserID = 7
	claims.Profile.Username = username

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestJwtAuthentication(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name         string
		header       string
		expectedCode int
	}{
		{
			name:         "ok",
			header:       "Bearer " + signToken(t, "reader", auth.JWTKey, jwt.NewNumericDate(time.Now().Add(time.Hour))),
			expectedCode: http.StatusOK,
		},
		{
			name:         "err. no header",
			header:       "",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "err. not bearer",
			header:       "Basic abc",
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "err. no exp claim",
			header:       "Bearer " + signToken(t, "reader", auth.JWTKey, nil),
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "err. expired",
			header:       "Bearer " + signToken(t, "reader", auth.JWTKey, jwt.NewNumericDate(time.Now().Add(-time.Hour))),
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "err. wrong key",
			header:       "Bearer " + signToken(t, "reader", []byte("other-key"), jwt.NewNumericDate(time.Now().Add(time.Hour))),
			expectedCode: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			e.GET("/me", func(c echo.Context) error {
				user, err := auth.FromContext(c.Request().Context())
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
				}
				return c.String(http.StatusOK, user.Username)
			}, mw.JwtAuthentication)

			r := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tt.header != "" {
				r.Header.Set(mw.AuthorizationHeader, tt.header)
			}
			w := httptest.NewRecorder()

			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				require.Equal(t, "reader", w.Body.String())
			}
		})
	}
}
