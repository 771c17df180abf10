// file: controllers/test_helpers.go
package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// setupTestRouter creates a new Gin engine with session middleware and minimal
// HTML templates that print the values the tests look for.
func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := cookie.NewStore([]byte("test-secret"), []byte("0123456789abcdef0123456789abcdef"))
	router.Use(sessions.Sessions("testsession", store))

	tmpDir := t.TempDir()
	if err := createDummyTemplates(tmpDir); err != nil {
		t.Fatalf("Failed to create dummy templates: %v", err)
	}
	router.LoadHTMLGlob(filepath.Join(tmpDir, "*.html"))
	return router
}

// createDummyTemplates writes a set of minimal HTML templates to the provided directory.
func createDummyTemplates(dir string) error {
	templates := map[string]string{
		"landing.html":         `<html><body>landing {{.User}}</body></html>`,
		"login.html":           `<html><body>login error={{.Error}}</body></html>`,
		"signup.html":          `<html><body>step={{.Step}}/{{.Total}} field={{.Field.Name}} value={{.Value}} error={{.Error}}</body></html>`,
		"signup_complete.html": `<html><body>complete {{.User}}</body></html>`,
		"feed.html":            `<html><body>error={{.Error}}{{range .Cards}}[{{.Title}}|{{.Width}}x{{.Height}}]{{end}}</body></html>`,
		"admin_feed.html":      `<html><body>error={{.Error}} type={{.Draft.Fields.Type}} image={{.Draft.Fields.ImageURL}} tags={{range .Draft.Fields.Tags}}{{.}},{{end}} items={{len .Items}}</body></html>`,
		"admin_feed_edit.html": `<html><body>error={{.Error}}{{with .Draft}} id={{.ID}} title={{.Fields.Title}}{{end}}</body></html>`,
	}

	for name, content := range templates {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

// SetSession sets the given key/value pairs in the session using a helper route
// and returns the session cookie that can be attached to subsequent test requests.
func SetSession(router *gin.Engine, route string, data map[string]interface{}) *http.Cookie {
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return sessionCookie(w)
}

// sessionCookie extracts the test session cookie from a response.
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "testsession" {
			return cookie
		}
	}
	return nil
}
