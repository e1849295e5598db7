package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const EmailKey contextKey = "email"

// Messages returned to clients by the identity gate. Clients match on these.
const (
	MsgUnauthorized = "Unauthorized Access"
	MsgForbidden    = "Forbidden Access"
)

// Claims is the token payload. Only the email is carried; roles are always
// looked up from the store so promotions take effect without reissuing.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenMiddleware verifies the bearer token on every request it wraps.
// A missing Authorization header is 401; any header that does not carry a
// valid HS256 token signed with secret is 403.
func TokenMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgUnauthorized)
			}

			claims, err := ParseToken(bearerToken(authHeader), secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}

			ctx := context.WithValue(c.Request().Context(), EmailKey, claims.Email)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// ParseToken verifies tokenStr and returns its claims.
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// bearerToken returns the credential after the scheme. A header with no
// space yields an empty token, which then fails verification.
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithEmail returns ctx carrying email as the verified identity.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, EmailKey, email)
}
