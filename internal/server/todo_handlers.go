package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskhub/internal/model"
	"taskhub/internal/sanitize"
	"taskhub/internal/store"
)

// todoPostRequest covers both shapes POST /api/todos accepts: a creation
// body and a reorder action.
type todoPostRequest struct {
	Action     string   `json:"action"`
	FromIndex  *int     `json:"fromIndex"`
	ToIndex    *int     `json:"toIndex"`
	Title      string   `json:"title"`
	CategoryID *string  `json:"categoryId"`
	Tags       []string `json:"tags"`
}

func (s *Server) handleListTodos(c *gin.Context) {
	userID := currentUser(c)
	data, err := s.store.GetUserData(c.Request.Context(), userID)
	if err != nil {
		log.Printf("list todos user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, data.Todos)
}

func (s *Server) handlePostTodos(c *gin.Context) {
	var req todoPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	if req.Action == "reorder" {
		s.reorderTodos(c, req)
		return
	}
	s.createTodo(c, req)
}

func (s *Server) reorderTodos(c *gin.Context, req todoPostRequest) {
	if req.FromIndex == nil || req.ToIndex == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": []string{"fromIndex and toIndex are required for reorder"},
		})
		return
	}

	userID := currentUser(c)
	todos, err := s.store.ReorderTodos(c.Request.Context(), userID, *req.FromIndex, *req.ToIndex)
	if err != nil {
		if errors.Is(err, store.ErrBadIndex) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation failed",
				"details": []string{"fromIndex or toIndex out of range"},
			})
			return
		}
		log.Printf("reorder user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, todos)
}

func (s *Server) createTodo(c *gin.Context, req todoPostRequest) {
	todo, problems := sanitize.ValidateNewTodo(sanitize.TodoInput{
		Title:      req.Title,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	})
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": problems})
		return
	}

	userID := currentUser(c)
	ctx := c.Request.Context()

	// References must resolve against the user's own collections.
	data, err := s.store.GetUserData(ctx, userID)
	if err != nil {
		log.Printf("create todo user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if problems := checkReferences(data, todo.CategoryID, todo.Tags); len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": problems})
		return
	}

	now := time.Now().UTC()
	todo.ID = uuid.NewString()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	if todo.Tags == nil {
		todo.Tags = []string{}
	}

	if err := s.store.AddTodo(ctx, userID, todo); err != nil {
		log.Printf("create todo user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	log.Printf("[info] todo created id=%s user=%s", todo.ID, userID)
	c.JSON(http.StatusCreated, todo)
}

func (s *Server) handleGetTodo(c *gin.Context) {
	userID := currentUser(c)
	data, err := s.store.GetUserData(c.Request.Context(), userID)
	if err != nil {
		log.Printf("get todo user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	id := c.Param("id")
	for i := range data.Todos {
		if data.Todos[i].ID == id {
			c.JSON(http.StatusOK, data.Todos[i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func (s *Server) handleUpdateTodo(c *gin.Context) {
	raw := make(map[string]json.RawMessage)
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	patch, problems := sanitize.ValidateTodoUpdate(raw)
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": problems})
		return
	}

	userID := currentUser(c)
	ctx := c.Request.Context()

	if patch.CategoryID != nil || patch.SetTags {
		data, err := s.store.GetUserData(ctx, userID)
		if err != nil {
			log.Printf("update todo user=%s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if problems := checkReferences(data, patch.CategoryID, patch.Tags); len(problems) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": problems})
			return
		}
	}

	todo, err := s.store.UpdateTodo(ctx, userID, c.Param("id"), patch, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		log.Printf("update todo user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (s *Server) handleDeleteTodo(c *gin.Context) {
	userID := currentUser(c)
	removed, err := s.store.DeleteTodo(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		log.Printf("delete todo user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// checkReferences verifies that a category reference and tag references
// resolve against the user's current collections.
func checkReferences(data *model.UserData, categoryID *string, tags []string) []string {
	var problems []string
	if categoryID != nil && data.FindCategory(*categoryID) == nil {
		problems = append(problems, fmt.Sprintf("categoryId: unknown category %q", *categoryID))
	}
	for _, tagID := range tags {
		if data.FindTag(tagID) == nil {
			problems = append(problems, fmt.Sprintf("tags: unknown tag %q", tagID))
		}
	}
	return problems
}
