package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"manthokha-backend/utils"
)

const AdminUserKey = "admin_user"

// AdminAuth checks HTTP basic credentials against one configured admin
// whose password is stored as a bcrypt hash. An empty hash locks the
// back office entirely.
func AdminAuth(username, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || passwordHash == "" ||
			subtle.ConstantTimeCompare([]byte(user), []byte(username)) != 1 ||
			bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) != nil {
			c.Header("WWW-Authenticate", `Basic realm="admin"`)
			utils.JSONError(c, http.StatusUnauthorized, "error.unauthorized", "Admin credentials are required.", nil)
			return
		}
		c.Set(AdminUserKey, user)
		c.Next()
	}
}
