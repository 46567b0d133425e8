package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/medialib-admin/internal/platform/ctxutil"
	"github.com/yungbote/medialib-admin/internal/platform/logger"
)

const adminRole = "admin"

type adminClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AdminAuth verifies HS256 bearer tokens for the admin API. A token must carry
// a subject; when it carries a role, the role must be "admin".
type AdminAuth struct {
	log    *logger.Logger
	secret []byte
}

func NewAdminAuth(log *logger.Logger, secret string) *AdminAuth {
	return &AdminAuth{
		log:    log.With("Middleware", "AdminAuth"),
		secret: []byte(strings.TrimSpace(secret)),
	}
}

// Enabled is false when no secret is configured; RequireAdmin then lets every
// request through.
func (am *AdminAuth) Enabled() bool { return am != nil && len(am.secret) > 0 }

func (am *AdminAuth) RequireAdmin() gin.HandlerFunc {
	if !am.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		claims, err := am.parse(tokenString)
		if err != nil {
			am.log.Debug("admin token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		if claims.Role != "" && claims.Role != adminRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "forbidden", "code": "forbidden"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithOperator(c.Request.Context(), claims.Subject))
		c.Next()
	}
}

func (am *AdminAuth) parse(tokenString string) (*adminClaims, error) {
	claims := &adminClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
