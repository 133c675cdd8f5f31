package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/result-academic/records-service/internal/authz"
	"github.com/result-academic/records-service/internal/models"
	"github.com/result-academic/records-service/internal/repositories"
)

// JWTAuthMiddleware authenticates requests with bearer tokens issued by the
// login endpoint.
type JWTAuthMiddleware struct {
	secret   []byte
	userRepo repositories.UserRepository
	resolver *authz.Resolver
}

func NewJWTAuthMiddleware(secret string, userRepo repositories.UserRepository, resolver *authz.Resolver) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		secret:   []byte(secret),
		userRepo: userRepo,
		resolver: resolver,
	}
}

// AuthMiddleware returns a Gin middleware that validates the bearer token and
// loads the account. Disabled accounts are rejected even with a valid token.
func (am *JWTAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authorization header missing",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "invalid authorization header format",
			})
			c.Abort()
			return
		}

		userID, err := am.parseToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": fmt.Sprintf("invalid token: %v", err),
			})
			c.Abort()
			return
		}

		user, err := am.userRepo.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "account no longer exists",
			})
			c.Abort()
			return
		}
		if !user.IsEnabled {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "account is disabled",
			})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.RoleName())

		c.Next()
	}
}

// RequirePermissionMiddleware rejects requests whose user holds none of the
// given permissions. Route-level gate; services re-check with full context.
func (am *JWTAuthMiddleware) RequirePermissionMiddleware(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "user not found in context",
			})
			c.Abort()
			return
		}
		user, ok := value.(*models.User)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "invalid user in context",
			})
			c.Abort()
			return
		}

		perms, err := am.resolver.PermissionsFor(c.Request.Context(), user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal",
				"message": "failed to resolve permissions",
			})
			c.Abort()
			return
		}

		for _, permission := range permissions {
			if perms.Has(permission) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": fmt.Sprintf("insufficient permissions, required one of: %v", permissions),
		})
		c.Abort()
	}
}

// parseToken validates the signature and expiry and extracts the user ID.
func (am *JWTAuthMiddleware) parseToken(raw string) (uint, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return am.secret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, fmt.Errorf("missing subject claim")
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim")
	}
	return uint(id), nil
}
