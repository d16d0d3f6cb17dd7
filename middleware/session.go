package middleware

import (
	"net/http"
	"strings"

	"mindease/models"
	"mindease/utils"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "sessionContext"

// SessionMiddleware turns the bearer token into a SessionContext on the gin
// context. Handlers pass it explicitly into services.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		session, err := utils.SessionFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		c.Set(sessionContextKey, *session)
		c.Next()
	}
}

// GetSession retrieves the SessionContext placed by SessionMiddleware.
func GetSession(c *gin.Context) (models.SessionContext, bool) {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return models.SessionContext{}, false
	}
	session, ok := v.(models.SessionContext)
	return session, ok
}
