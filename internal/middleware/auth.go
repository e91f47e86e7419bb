package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"redecell/internal/apierror"
	"redecell/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const principalKey = "principal"

// PrincipalLoader resolves a user id into its role and aggregated permissions.
// Implemented by service.AuthService.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID uuid.UUID) (*auth.Principal, error)
}

// Authenticate verifies the bearer token and stores the resolved Principal on
// the request. 401 without a token, 403 for a bad token or unknown user, 500
// when no signing secret is configured.
func Authenticate(secret string, loader PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			log.Error().Str("request_id", c.GetString(RequestIDKey)).Msg("JWT_SECRET not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(MsgInternal))
			return
		}

		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(tokenStr) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token de acesso não fornecido"))
			return
		}

		userID, err := auth.ParseToken(secret, strings.TrimSpace(tokenStr))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Token inválido ou expirado"))
			return
		}

		principal, err := loader.LoadPrincipal(c.Request.Context(), userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Usuário não encontrado"))
			return
		}
		if err != nil {
			log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("principal lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(MsgInternal))
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// Authorize lets the request through when the principal is admin or holds permission.
func Authorize(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação necessária"))
			return
		}
		if !p.Can(permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Acesso negado: permissão insuficiente"))
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the Principal set by Authenticate, or nil.
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}
