// file: controllers/signup_controller.go
package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-youth-feed/logger"
	"go-youth-feed/models"
	"go-youth-feed/services"
)

const msgSignupFailed = "회원가입 처리 중 오류가 발생했습니다."

// SignupController drives the signup wizard and the signup API.
type SignupController struct {
	Registrar services.Registrar
	IsAdmin   func(email string) bool
}

// NewSignupController creates a SignupController. isAdmin may be nil.
func NewSignupController(registrar services.Registrar, isAdmin func(string) bool) *SignupController {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &SignupController{Registrar: registrar, IsAdmin: isAdmin}
}

// ------------------- wizard state in the session -------------------

func loadWizard(c *gin.Context) services.WizardState {
	raw, ok := sessions.Default(c).Get(sessionWizard).(string)
	if !ok || raw == "" {
		return services.NewWizard()
	}
	var state services.WizardState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logger.Warn.Printf("loadWizard: discarding unreadable wizard state: %v", err)
		return services.NewWizard()
	}
	if state.Step < 0 || state.Step > services.LastStep() {
		return services.NewWizard()
	}
	return state
}

func saveWizard(c *gin.Context, state services.WizardState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	session := sessions.Default(c)
	session.Set(sessionWizard, string(raw))
	return session.Save()
}

func (sc *SignupController) render(c *gin.Context, status int, state services.WizardState, msg string) {
	total := len(services.WizardSteps)
	c.HTML(status, "signup.html", gin.H{
		"Step":      state.Number(),
		"Total":     total,
		"Progress":  state.Number() * 100 / total,
		"Field":     state.Field(),
		"Value":     state.Value(),
		"UserTypes": models.UserTypes,
		"IsFirst":   state.Step == 0,
		"IsLast":    state.IsLast(),
		"Error":     msg,
	})
}

// ------------------- handlers -------------------

// ShowSignup renders the current wizard step.
func (sc *SignupController) ShowSignup(c *gin.Context) {
	sc.render(c, http.StatusOK, loadWizard(c), "")
}

// SubmitSignup applies the posted action ("next", "back" or "finish") to the
// wizard. Finish runs the registration sequence.
func (sc *SignupController) SubmitSignup(c *gin.Context) {
	state := loadWizard(c)
	value := c.PostForm("value")

	var action services.Action
	switch c.PostForm("action") {
	case "back":
		action = services.Back()
	case "finish":
		action = services.Finish(value)
	default:
		action = services.Next(value)
	}

	next, err := services.Apply(state, action)
	if err != nil {
		_, msg := errorMessage(err, err.Error())
		logger.Warn.Printf("SubmitSignup: step %d rejected: %v", state.Number(), err)
		sc.render(c, http.StatusBadRequest, state, msg)
		return
	}

	if action.Kind != services.ActionFinish {
		if err := saveWizard(c, next); err != nil {
			logger.Error.Printf("SubmitSignup: Failed to save session: %v", err)
			sc.render(c, http.StatusInternalServerError, state, msgSignupFailed)
			return
		}
		c.Redirect(http.StatusFound, "/signup")
		return
	}

	res, err := sc.Registrar.Register(c.Request.Context(), next.Draft)
	if err != nil {
		status, msg := errorMessage(err, msgSignupFailed)
		logger.Warn.Printf("SubmitSignup: registration failed: %v", err)
		sc.render(c, status, next, msg)
		return
	}

	session := sessions.Default(c)
	session.Delete(sessionWizard)
	if err := signIn(c, res.User, sc.IsAdmin(res.User.Email)); err != nil {
		logger.Error.Printf("SubmitSignup: Failed to save session: %v", err)
	}
	logger.Info.Printf("SubmitSignup: %s registered (resumed=%v)", res.User.Email, res.Resumed)
	c.Redirect(http.StatusFound, "/signup/complete")
}

// SignupAPI handles POST /api/signup and returns the profile without the password.
func (sc *SignupController) SignupAPI(c *gin.Context) {
	var p models.SignupProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		logger.Warn.Printf("SignupAPI: invalid body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}
	if p.ConfirmPassword == "" {
		p.ConfirmPassword = p.Password
	}

	res, err := sc.Registrar.Register(c.Request.Context(), p)
	if err != nil {
		respondError(c, "SignupAPI", err, msgSignupFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": res.Profile})
}

// SignupComplete renders the completion page.
func (sc *SignupController) SignupComplete(c *gin.Context) {
	c.HTML(http.StatusOK, "signup_complete.html", gin.H{"User": currentUser(c)})
}
