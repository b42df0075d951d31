package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"smartsalle/gym-app/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context key under which the request principal is stored
const ContextPrincipalKey = "principal"

// AuthMiddleware creates a Gin middleware that verifies the bearer token and
// derives the request Principal from its claims. Verification covers the
// signature and standard validity claims; interpretation of the custom
// claims (subject, roles) is entirely the auth package's job and never
// rejects a request by itself; a token with unusable claims yields a
// principal that downstream guards deny.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			// Validate the alg is what we expect:
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		if !token.Valid {
			abortWithError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		// --- Token is valid ---
		c.Set(ContextPrincipalKey, auth.PrincipalFromClaims(claims))
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RequirePermission creates middleware that denies the request unless the
// principal's role set grants the permission. Must run AFTER AuthMiddleware.
func RequirePermission(perm auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromContext(c)
		if err != nil {
			// AuthMiddleware did not run; treat as unauthenticated.
			abortWithError(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		if err := auth.Authorize(principal, auth.Permitted(perm)); err != nil {
			abortWithError(c, http.StatusForbidden, auth.ErrForbidden.Error())
			return
		}

		c.Next()
	}
}

// principalFromContext returns the request principal set by AuthMiddleware.
func principalFromContext(c *gin.Context) (auth.Principal, error) {
	raw, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return auth.Principal{}, errors.New("principal not found in context")
	}
	principal, ok := raw.(auth.Principal)
	if !ok {
		return auth.Principal{}, errors.New("invalid principal type in context")
	}
	return principal, nil
}
