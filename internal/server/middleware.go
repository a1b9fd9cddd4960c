package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskhub/internal/auth"
)

const userKey = "taskhub.user"

// sessionUser extracts and verifies the session token from the cookie or the
// Authorization header, returning the user identifier it carries.
func (s *Server) sessionUser(c *gin.Context) (string, bool) {
	token, err := c.Cookie(auth.SessionCookie)
	if err != nil || token == "" {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return "", false
		}
		token = strings.TrimPrefix(header, "Bearer ")
	}
	userID, err := s.auth.Verify(token)
	if err != nil {
		return "", false
	}
	return userID, true
}

// requireUser guards API routes: a missing or invalid session yields a
// uniform 401 with no detail.
func (s *Server) requireUser(c *gin.Context) {
	userID, ok := s.sessionUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(userKey, userID)
	c.Next()
}

// currentUser reads the identifier placed by requireUser.
func currentUser(c *gin.Context) string {
	return c.GetString(userKey)
}
