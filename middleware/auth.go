// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-youth-feed/logger"
)

// -------------- authentication middleware --------------

// AuthRequired is a middleware that ensures the user is logged in.
// Requests without a "user" session value are redirected to /login, or get
// a 401 JSON body when they target the API.
//
//	router.Use(AuthRequired)
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	user, _ := session.Get("user").(string)

	// block request if user session is missing
	if user == "" {
		logger.Warn.Printf("AuthRequired: No user in session for %s", c.Request.URL.Path)
		deny(c)
		return
	}

	logger.Debug.Printf("[AuthRequired] %s authenticated - proceeding with request", user)
	c.Next()
}

// deny aborts the request: JSON 401 for /api, redirect to /login otherwise.
func deny(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}
