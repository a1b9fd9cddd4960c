package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub/internal/sanitize"
)

func (s *Server) handleListTags(c *gin.Context) {
	userID := currentUser(c)
	data, err := s.store.GetUserData(c.Request.Context(), userID)
	if err != nil {
		log.Printf("list tags user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, data.Tags)
}

func (s *Server) handleCreateTag(c *gin.Context) {
	var in sanitize.TagInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	tag, problems := sanitize.ValidateNewTag(in)
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": problems})
		return
	}

	userID := currentUser(c)
	now := time.Now().UTC()
	tag.ID = uuid.NewString()
	tag.CreatedAt = now
	tag.UpdatedAt = now

	if err := s.store.AddTag(c.Request.Context(), userID, tag); err != nil {
		log.Printf("create tag user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	log.Printf("[info] tag created id=%s user=%s", tag.ID, userID)
	c.JSON(http.StatusCreated, tag)
}

func (s *Server) handleDeleteTag(c *gin.Context) {
	userID := currentUser(c)
	removed, err := s.store.DeleteTag(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		log.Printf("delete tag user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
