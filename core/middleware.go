package core

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// CORSMiddleware allows the mobile app during development. With no configured
// origins it falls back to allowing everything, which is enough for dev use.
func CORSMiddleware(cfg Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	return cors.New(corsCfg)
}

// extractBearerToken pulls the token out of an Authorization header.
// Returns "" when the header is missing or not in Bearer form.
func extractBearerToken(authHeader string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
}

// RequireAuth resolves the principal from the bearer token and stores it in
// the request context. Every failure (missing header, bad token, unknown
// subject) gets the same 401 with a Bearer challenge.
func RequireAuth(authService *AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reject := func() {
			c.Header("WWW-Authenticate", "Bearer")
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Não autenticado")
			c.Abort()
		}

		token := extractBearerToken(c.GetHeader("Authorization"))
		if token == "" {
			reject()
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			reject()
			return
		}

		c.Set(principalKey, user)
		c.Next()
	}
}

// currentUser returns the principal resolved by RequireAuth.
func currentUser(c *gin.Context) (User, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return User{}, false
	}
	u, ok := v.(User)
	return u, ok
}
