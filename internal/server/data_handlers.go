package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub/internal/sanitize"
)

func (s *Server) handleGetData(c *gin.Context) {
	userID := currentUser(c)
	data, err := s.store.GetUserData(c.Request.Context(), userID)
	if err != nil {
		log.Printf("get data user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// handleImportData is the one-time local-to-server migration. It is lenient:
// bad records become warnings instead of failing the import, but a second
// import attempt is rejected outright.
func (s *Server) handleImportData(c *gin.Context) {
	userID := currentUser(c)
	ctx := c.Request.Context()

	migrated, err := s.store.HasMigrated(ctx, userID)
	if err != nil {
		log.Printf("check migrated user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if migrated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "already migrated"})
		return
	}

	var payload sanitize.StatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	data, warnings := sanitize.SanitizeState(payload, time.Now().UTC())
	if err := s.store.ImportUserData(ctx, userID, data); err != nil {
		log.Printf("import user=%s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	log.Printf("[info] migrated user=%s todos=%d categories=%d tags=%d warnings=%d",
		userID, len(data.Todos), len(data.Categories), len(data.Tags), len(warnings))

	resp := gin.H{
		"success":  true,
		"migrated": true,
		"stats": gin.H{
			"todos":      len(data.Todos),
			"categories": len(data.Categories),
			"tags":       len(data.Tags),
		},
	}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}
