package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cliniclink/telehealth-server/internal/store"
)

// GetUser returns a single user record by ID.
func GetUser(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := st.User(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
