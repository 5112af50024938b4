package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fusiondb/middlewares"
	"fusiondb/sessions"
	"fusiondb/store"
)

// CreateSessionInput optionally identifies the user starting the session;
// without it a guest session is created.
type CreateSessionInput struct {
	User *struct {
		ID        string `json:"id"`
		Login     string `json:"login"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	} `json:"user"`
	Data map[string]interface{} `json:"data"`
}

// CreateSession Start a visualization session and hand back a session token
func CreateSession(s *store.Store, cache *sessions.LocalCache, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateSessionInput
		if err := c.ShouldBindJSON(&input); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var userID string
		if input.User != nil {
			user, err := s.GetCreate("user", input.User.ID, map[string]interface{}{
				"login":     input.User.Login,
				"firstName": input.User.FirstName,
				"lastName":  input.User.LastName,
				"email":     input.User.Email,
			})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			userID = user.GetID()
		} else {
			userID = store.GuestUserID()
		}

		sess, err := s.GetCreate("visSession", "", map[string]interface{}{
			"user": userID,
			"data": input.Data,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		cache.Touch(sessions.ActiveSession{ID: sess.GetID(), UserID: userID})

		token, err := middlewares.CreateToken(secret, userID, sess.GetID(), ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": sess.ToMap(), "token": token})
	}
}

// CurrentUser Return the user behind the session token
func CurrentUser(s *store.Store, cache *sessions.LocalCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middlewares.ContextUserID)
		sessionID := c.GetString(middlewares.ContextSessionID)

		if sessionID != "" {
			cache.Touch(sessions.ActiveSession{ID: sessionID, UserID: userID})
		}

		user, err := s.GetCreate("user", userID, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if user == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Record not found!"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": user.ToMap()})
	}
}
