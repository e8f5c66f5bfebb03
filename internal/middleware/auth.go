package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/config"
)

const (
	ContextUserID   = "userID"
	ContextTenantID = "tenantID"
	ContextStaffID  = "staffID"
	ContextUserRole = "userRole"
)

// AuthMiddleware verifies an HS256 bearer token carrying "sub" (user id),
// "tenantId" and optionally "staffId" and "role".
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok1 := uuidClaim(claims, "sub")
		tenantID, ok2 := uuidClaim(claims, "tenantId")
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextTenantID, tenantID)
		c.Set(ContextUserRole, role)
		if staffID, ok := uuidClaim(claims, "staffId"); ok {
			c.Set(ContextStaffID, staffID)
		}

		c.Next()
	}
}

// RequireTenant rejects requests whose :tenant path parameter differs from
// the token's tenant.
func RequireTenant(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathTenant, err := uuid.Parse(c.Param(param))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_tenant"})
			return
		}

		tokenTenant, ok := c.Get(ContextTenantID)
		if !ok || tokenTenant.(uuid.UUID) != pathTenant {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "tenant_mismatch"})
			return
		}

		c.Next()
	}
}

func uuidClaim(claims jwt.MapClaims, key string) (uuid.UUID, bool) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id := v.(uuid.UUID)
	return &id
}

func TenantID(c *gin.Context) uuid.UUID {
	v, _ := c.Get(ContextTenantID)
	id, _ := v.(uuid.UUID)
	return id
}
