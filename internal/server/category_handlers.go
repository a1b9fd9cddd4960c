package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub/internal/sanitize"
)

func (s *Server) handleListCategories(c *gin.Context) {
	userID := currentUser(c)
	data, err := s.store.GetUserData(c.Request.Context(), userID)
	if err != nil {
		log.Printf("list categories user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, data.Categories)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var in sanitize.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	category, problems := sanitize.ValidateNewCategory(in)
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": problems})
		return
	}

	userID := currentUser(c)
	now := time.Now().UTC()
	category.ID = uuid.NewString()
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := s.store.AddCategory(c.Request.Context(), userID, category); err != nil {
		log.Printf("create category user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	log.Printf("[info] category created id=%s user=%s", category.ID, userID)
	c.JSON(http.StatusCreated, category)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	userID := currentUser(c)
	removed, err := s.store.DeleteCategory(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		log.Printf("delete category user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
