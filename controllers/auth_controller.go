// file: controllers/auth_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-youth-feed/gateway"
	"go-youth-feed/logger"
)

const msgLoginFieldsRequired = "이메일과 비밀번호를 입력해주세요."

// AuthController signs users in and out against the identity provider.
type AuthController struct {
	Identity gateway.Identity
	IsAdmin  func(email string) bool
}

// NewAuthController creates an AuthController. isAdmin may be nil.
func NewAuthController(identity gateway.Identity, isAdmin func(string) bool) *AuthController {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthController{Identity: identity, IsAdmin: isAdmin}
}

// ShowLoginPage renders the login form.
func (ac *AuthController) ShowLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"User": currentUser(c)})
}

// PerformLogin signs in with email and password and redirects to /feed.
func (ac *AuthController) PerformLogin(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if email == "" || password == "" {
		logger.Warn.Println("PerformLogin: Missing email or password")
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": msgLoginFieldsRequired, "Email": email})
		return
	}

	identity, err := ac.Identity.SignInWithPassword(c.Request.Context(), email, password)
	if err != nil {
		status, msg := errorMessage(err, "로그인 중 오류가 발생했습니다.")
		logger.Warn.Printf("PerformLogin: sign-in failed for %s: %v", email, err)
		c.HTML(status, "login.html", gin.H{"Error": msg, "Email": email})
		return
	}

	if err := signIn(c, identity, ac.IsAdmin(identity.Email)); err != nil {
		logger.Error.Printf("PerformLogin: Failed to save session: %v", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "세션 저장에 실패했습니다.", "Email": email})
		return
	}

	logger.Info.Printf("PerformLogin: %s signed in", identity.Email)
	c.Redirect(http.StatusFound, "/feed")
}

// Logout clears the session and returns to the login page.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if user := currentUser(c); user != "" {
		logger.Info.Printf("Logout: Logging out user %s", user)
	}

	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: Error saving session during logout: %v", err)
	} else {
		logger.Info.Println("Logout: Session cleared successfully")
	}

	c.Redirect(http.StatusFound, "/login")
}
