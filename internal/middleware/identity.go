package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/siriwat/tickethub/internal/auth"
)

const callerContextKey = "caller"

// Identity validates a Bearer token and stores an auth.Caller in the echo
// context. Handlers retrieve it with CallerFrom and pass it to services as an
// explicit parameter.
func Identity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			subject, err := claims.GetSubject()
			if err != nil || subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			role := auth.RoleCustomer
			if r, ok := claims["role"].(string); ok && r != "" {
				role = auth.Role(r)
			}

			c.Set(callerContextKey, auth.Caller{CustomerID: subject, Role: role})
			return next(c)
		}
	}
}

// CallerFrom returns the authenticated caller placed by Identity.
func CallerFrom(c echo.Context) (auth.Caller, bool) {
	caller, ok := c.Get(callerContextKey).(auth.Caller)
	return caller, ok
}
