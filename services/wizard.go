// file: services/wizard.go
package services

import (
	"strings"

	"go-youth-feed/models"
)

// WizardField describes the single profile field a wizard step collects.
type WizardField struct {
	Name      string
	Label     string
	InputType string
}

// WizardSteps are the signup steps in order.
var WizardSteps = []WizardField{
	{Name: "name", Label: "이름", InputType: "text"},
	{Name: "email", Label: "이메일", InputType: "email"},
	{Name: "baptismal", Label: "세례명", InputType: "text"},
	{Name: "userType", Label: "구분", InputType: "select"},
	{Name: "password", Label: "비밀번호", InputType: "password"},
	{Name: "confirmPassword", Label: "비밀번호 확인", InputType: "password"},
}

// WizardState is the whole wizard: the zero-based current step and the draft.
type WizardState struct {
	Step  int                  `json:"step"`
	Draft models.SignupProfile `json:"draft"`
}

// ActionKind names a wizard transition.
type ActionKind int

const (
	ActionNext ActionKind = iota
	ActionBack
	ActionFinish
)

// Action is a transition request, carrying the submitted value for Next and Finish.
type Action struct {
	Kind  ActionKind
	Value string
}

func Next(value string) Action   { return Action{Kind: ActionNext, Value: value} }
func Back() Action               { return Action{Kind: ActionBack} }
func Finish(value string) Action { return Action{Kind: ActionFinish, Value: value} }

// NewWizard is the initial state: first step, empty draft.
func NewWizard() WizardState {
	return WizardState{}
}

// LastStep is the index of the final step.
func LastStep() int { return len(WizardSteps) - 1 }

// Field is the field collected on the current step.
func (s WizardState) Field() WizardField { return WizardSteps[s.Step] }

// IsLast reports whether the current step is the final one.
func (s WizardState) IsLast() bool { return s.Step == LastStep() }

// Number is the one-based step number for display.
func (s WizardState) Number() int { return s.Step + 1 }

// Value is the draft value of the current step's field.
func (s WizardState) Value() string {
	return fieldValue(s.Draft, s.Field().Name)
}

// Apply is the wizard's transition function. On error the returned state is
// s, unchanged.
func Apply(s WizardState, a Action) (WizardState, error) {
	if s.Step < 0 || s.Step > LastStep() {
		s.Step = 0
	}

	switch a.Kind {
	case ActionNext:
		if s.IsLast() {
			return s, models.ErrWizardFinished
		}
		next, err := s.set(a.Value)
		if err != nil {
			return s, err
		}
		next.Step++
		return next, nil

	case ActionBack:
		if s.Step == 0 {
			return s, models.ErrWizardFirstStep
		}
		s.Step--
		return s, nil

	case ActionFinish:
		if !s.IsLast() {
			return s, models.ErrWizardNotFinished
		}
		next, err := s.set(a.Value)
		if err != nil {
			return s, err
		}
		if next.Draft.Password != next.Draft.ConfirmPassword {
			return s, models.NewValidationError("", models.ErrPasswordMismatch)
		}
		return next, nil
	}
	return s, models.ErrWizardFinished
}

// set validates value for the current step and stores it in a copy of s.
func (s WizardState) set(value string) (WizardState, error) {
	field := s.Field()
	if field.InputType != "password" {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		return s, models.NewValidationError(field.Label, models.ErrMissingField)
	}

	d := s.Draft
	switch field.Name {
	case "name":
		d.Name = value
	case "email":
		d.Email = value
	case "baptismal":
		d.Baptismal = value
	case "userType":
		if !models.UserType(value).Valid() {
			return s, models.NewValidationError(field.Label, models.ErrInvalidUserType)
		}
		d.UserType = models.UserType(value)
	case "password":
		d.Password = value
	case "confirmPassword":
		d.ConfirmPassword = value
	}
	s.Draft = d
	return s, nil
}

func fieldValue(p models.SignupProfile, name string) string {
	switch name {
	case "name":
		return p.Name
	case "email":
		return p.Email
	case "baptismal":
		return p.Baptismal
	case "userType":
		return string(p.UserType)
	case "password":
		return p.Password
	case "confirmPassword":
		return p.ConfirmPassword
	}
	return ""
}
