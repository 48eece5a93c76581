package jwtmiddleware

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// AdminGuard protects catalog mutations with an HS256 bearer token when an
// admin secret is configured. Missing and invalid tokens both answer 401.
func AdminGuard(secret []byte) echo.MiddlewareFunc {
	cfg := echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		ContextKey:    "admin",
		TokenLookup:   "header:Authorization",
		KeyFunc: func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing admin token")
		},
	})
	return cfg
}
