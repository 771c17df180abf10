// Package controllers contains the gin handlers for pages and the JSON API.
// file: controllers/respond.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-youth-feed/logger"
	"go-youth-feed/models"
)

// session keys
const (
	sessionUser    = "user"
	sessionUserID  = "userID"
	sessionIsAdmin = "isAdmin"
	sessionWizard  = "wizard"
)

// errorMessage maps err onto a status and the text shown to the user.
// Validation and provider messages pass through; anything else is replaced
// by fallback.
func errorMessage(err error, fallback string) (int, string) {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Message()
	}

	var aErr *models.AuthError
	if errors.As(err, &aErr) {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return http.StatusUnauthorized, aErr.Error()
		}
		return http.StatusBadRequest, aErr.Error()
	}

	return http.StatusInternalServerError, fallback
}

// respondError writes {"error": ...} for err.
func respondError(c *gin.Context, handler string, err error, fallback string) {
	status, msg := errorMessage(err, fallback)
	if status >= http.StatusInternalServerError {
		logger.Error.Printf("%s: %v", handler, err)
	} else {
		logger.Warn.Printf("%s: %v", handler, err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// signIn stores the signed-in identity in the session.
func signIn(c *gin.Context, identity models.Identity, isAdmin bool) error {
	session := sessions.Default(c)
	session.Set(sessionUser, identity.Email)
	session.Set(sessionUserID, identity.ID)
	session.Set(sessionIsAdmin, isAdmin)
	return session.Save()
}

// currentUser is the signed-in email, or "".
func currentUser(c *gin.Context) string {
	user, _ := sessions.Default(c).Get(sessionUser).(string)
	return user
}

func isAdminSession(c *gin.Context) bool {
	isAdmin, _ := sessions.Default(c).Get(sessionIsAdmin).(bool)
	return isAdmin
}
