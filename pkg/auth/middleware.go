package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hugohenrick/vex-core/internal/adapter/api/dto"
	"github.com/hugohenrick/vex-core/pkg/assistant/policy"
	"github.com/hugohenrick/vex-core/pkg/assistant/tool"
	"github.com/hugohenrick/vex-core/pkg/tenant"
)

const (
	claimsKey = "auth_claims"
	tokenKey  = "auth_token"
)

// JWTAuthMiddleware valida o bearer token e guarda as claims no contexto
func JWTAuthMiddleware(svc *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"O cabeçalho Authorization não foi fornecido",
			))
			return
		}

		// Verificar o formato "Bearer <token>"
		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") || strings.TrimSpace(tokenParts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Formato de token inválido",
				"Use o formato 'Bearer <token>'",
			))
			return
		}
		raw := strings.TrimSpace(tokenParts[1])

		claims, err := svc.ValidateToken(raw)
		if err != nil {
			message := "Token inválido"
			if errors.Is(err, ErrExpiredToken) {
				message = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				message,
				err.Error(),
			))
			return
		}

		c.Set(claimsKey, claims)
		c.Set(tokenKey, raw)
		c.Set("tenant_id", claims.TenantID)
		c.Set("user_id", claims.UserID)
		c.Request = c.Request.WithContext(tenant.SetTenantIDContext(c.Request.Context(), claims.TenantID))

		c.Next()
	}
}

// Claims devolve as claims autenticadas, ou nil
func Claims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}

// CallerFrom monta a identidade do chamador a partir do token validado
func CallerFrom(c *gin.Context) (tool.Caller, bool) {
	claims := Claims(c)
	if claims == nil {
		return tool.Caller{}, false
	}
	return tool.Caller{
		TenantID:   claims.TenantID,
		UserID:     claims.UserID,
		Email:      claims.Email,
		Role:       claims.Role,
		Superadmin: claims.Superadmin,
		AuthToken:  c.GetString(tokenKey),
	}, true
}

// SuperadminMiddleware libera a rota apenas para superadmins (flag, papel ou email configurado)
func SuperadminMiddleware(gate *policy.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				http.StatusUnauthorized,
				"Autenticação requerida",
				"",
			))
			return
		}
		id := policy.Identity{Role: claims.Role, Email: claims.Email, Superadmin: claims.Superadmin}
		if !gate.IsSuperadmin(id) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				http.StatusForbidden,
				"Acesso negado",
				"Você não tem permissão para acessar este recurso",
			))
			return
		}
		c.Next()
	}
}
