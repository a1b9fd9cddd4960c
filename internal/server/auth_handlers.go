package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/auth"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	token, err := s.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.Printf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	log.Printf("[info] login user=%s", req.Username)
	c.SetCookie(auth.SessionCookie, token, int(s.auth.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
