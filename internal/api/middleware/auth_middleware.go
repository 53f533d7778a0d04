package middleware

import (
	"net/http"
	"strings"

	"parking_enforcement/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	AuthorizationHeaderKey  = "Authorization"
	AuthorizationTypeBearer = "Bearer"
	// AccessTokenQueryKey carries the token for websocket upgrades, where
	// browsers cannot set headers.
	AccessTokenQueryKey = "access_token"
	UserIDKey           = "userID"
	UserRoleKey         = "userRole"
	EmailKey            = "email"
	OfficialIDKey       = "officialID"
)

type AuthMiddleware struct {
	authService *service.AuthService
	log         *zap.SugaredLogger
}

func NewAuthMiddleware(authService *service.AuthService, log *zap.SugaredLogger) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, log: log}
}

// Authenticate validates the bearer token and stores the caller in the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or malformed authorization header"})
			return
		}

		_, claims, err := m.authService.ValidateToken(accessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired", "details": err.Error()})
			return
		}

		userID, okUserID := claims["sub"].(string)
		userRole, okUserRole := claims["role"].(string)
		email, okEmail := claims["email"].(string)
		officialID, okOfficialID := claims["official_id"].(float64)

		if !okUserID || !okUserRole || !okEmail || !okOfficialID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is missing user claims"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserRoleKey, userRole)
		c.Set(EmailKey, email)
		c.Set(OfficialIDKey, int(officialID))

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(AuthorizationHeaderKey)
	if authHeader == "" {
		token := c.Query(AccessTokenQueryKey)
		return token, token != ""
	}
	fields := strings.Fields(authHeader)
	if len(fields) < 2 || !strings.EqualFold(fields[0], AuthorizationTypeBearer) {
		return "", false
	}
	return fields[1], true
}

// AuthorizeRole lets the request through only for the listed official types.
func (m *AuthMiddleware) AuthorizeRole(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(UserRoleKey)
		if userRole == "" {
			m.log.Warn("AuthorizeRole: no role in context, Authenticate() must run first")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied (missing role)"})
			return
		}

		for _, reqRole := range requiredRoles {
			if userRole == reqRole {
				c.Next()
				return
			}
		}

		m.log.Infow("AuthorizeRole: role not permitted", "role", userRole, "required", requiredRoles, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied for this role"})
	}
}
