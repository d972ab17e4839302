package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "rollcall_session"

// sessionContextKey is where middleware stores the verified session.
const sessionContextKey = "session"

// RequireRole enforces an authenticated session holding one of the given
// roles. Browsers without a session are redirected to the login page; XHR
// clients get structured JSON.
func RequireRole(svc *Service, roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			abortUnauthenticated(c)
			return
		}
		sess, err := svc.Verify(c.Request.Context(), token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}
		if len(roles) > 0 && !hasRole(sess.Role, roles) {
			if isXHR(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient permissions"})
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireRole.
func SessionFrom(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}

func abortUnauthenticated(c *gin.Context) {
	if isXHR(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "login required"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
	c.Abort()
}

func hasRole(have Role, want []Role) bool {
	for _, r := range want {
		if have == r {
			return true
		}
	}
	return false
}

func isXHR(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
