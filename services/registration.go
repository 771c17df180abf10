// file: services/registration.go
package services

import (
	"context"
	"errors"
	"strings"

	"go-youth-feed/gateway"
	"go-youth-feed/logger"
	"go-youth-feed/metrics"
	"go-youth-feed/models"
)

// ------------------- saga -------------------

// Step is one operation of a Saga. Compensate may be nil.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// StepError reports which step of a Saga failed. Its text is the cause's text.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }

// Saga runs steps strictly in order. When a step fails, the compensations of
// the steps that completed in this run are invoked in reverse order.
type Saga struct {
	Steps []Step
}

// Run executes Steps[from:].
func (s Saga) Run(ctx context.Context, from int) error {
	for i := from; i < len(s.Steps); i++ {
		step := s.Steps[i]
		logger.Debug.Printf("Saga: running step %q", step.Name)
		if err := step.Run(ctx); err != nil {
			logger.Warn.Printf("Saga: step %q failed: %v", step.Name, err)
			s.compensate(ctx, from, i)
			return &StepError{Step: step.Name, Err: err}
		}
	}
	return nil
}

func (s Saga) compensate(ctx context.Context, from, failed int) {
	for i := failed - 1; i >= from; i-- {
		step := s.Steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			logger.Error.Printf("Saga: compensation for %q failed: %v", step.Name, err)
		}
	}
}

// ------------------- registration -------------------

// Registration step names.
const (
	StepCreateIdentity   = "create identity"
	StepPersistProfile   = "persist profile"
	StepEstablishSession = "establish session"
)

// RegistrationResult is what a successful registration yields.
type RegistrationResult struct {
	User    models.Identity
	Profile models.Profile
	Resumed bool
}

// Registrar is what the signup handlers depend on.
type Registrar interface {
	Register(ctx context.Context, p models.SignupProfile) (RegistrationResult, error)
}

// Registration creates an identity, persists its profile and signs in.
type Registration struct {
	identity gateway.Identity
	records  gateway.Records
	metrics  metrics.Publisher

	// Optional rollback hooks. Nil means the earlier steps are left in place.
	UndoIdentity func(ctx context.Context, identity models.Identity) error
	UndoProfile  func(ctx context.Context, profile models.Profile) error
}

var _ Registrar = (*Registration)(nil)

// NewRegistration wires a Registration over the identity provider and record store.
func NewRegistration(identity gateway.Identity, records gateway.Records, pub metrics.Publisher) *Registration {
	if pub == nil {
		pub = metrics.Noop{}
	}
	return &Registration{identity: identity, records: records, metrics: pub}
}

// ValidateProfile checks a complete profile before any gateway call.
func ValidateProfile(p models.SignupProfile) error {
	required := []struct {
		field string
		value string
	}{
		{"name", p.Name},
		{"email", p.Email},
		{"baptismal", p.Baptismal},
		{"userType", string(p.UserType)},
		{"password", p.Password},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return models.NewValidationError(r.field, models.ErrMissingField)
		}
	}
	if !p.UserType.Valid() {
		return models.NewValidationError("userType", models.ErrInvalidUserType)
	}
	if p.Password != p.ConfirmPassword {
		return models.NewValidationError("", models.ErrPasswordMismatch)
	}
	return nil
}

// Register runs the three registration steps. If the email is already
// registered but the same credentials sign in and no profile exists yet,
// the run resumes at the profile step instead of failing.
func (r *Registration) Register(ctx context.Context, p models.SignupProfile) (RegistrationResult, error) {
	if err := ValidateProfile(p); err != nil {
		return RegistrationResult{}, err
	}

	var res RegistrationResult
	saga := r.saga(p, &res)

	err := saga.Run(ctx, 0)
	if err != nil && errors.Is(err, models.ErrEmailAlreadyRegistered) {
		if identity, ok := r.orphaned(ctx, p); ok {
			logger.Info.Printf("Registration: resuming orphaned account %s", identity.ID)
			res.User = identity
			res.Resumed = true
			err = saga.Run(ctx, 1)
		}
	}
	if err != nil {
		r.metrics.Count(metrics.SignupFailed)
		return RegistrationResult{}, unwrapStep(err)
	}

	logger.Info.Printf("Registration: registered %s", res.User.Email)
	r.metrics.Count(metrics.SignupCompleted)
	return res, nil
}

func (r *Registration) saga(p models.SignupProfile, res *RegistrationResult) Saga {
	return Saga{Steps: []Step{
		{
			Name: StepCreateIdentity,
			Run: func(ctx context.Context) error {
				identity, err := r.identity.SignUp(ctx, p.Email, p.Password, p.Metadata())
				if err != nil {
					return err
				}
				res.User = identity
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if r.UndoIdentity == nil {
					return nil
				}
				return r.UndoIdentity(ctx, res.User)
			},
		},
		{
			Name: StepPersistProfile,
			Run: func(ctx context.Context) error {
				profile := models.ProfileFor(res.User, p)
				if err := r.records.InsertProfile(ctx, profile); err != nil {
					return err
				}
				res.Profile = profile
				return nil
			},
			Compensate: func(ctx context.Context) error {
				if r.UndoProfile == nil {
					return nil
				}
				return r.UndoProfile(ctx, res.Profile)
			},
		},
		{
			Name: StepEstablishSession,
			Run: func(ctx context.Context) error {
				identity, err := r.identity.SignInWithPassword(ctx, p.Email, p.Password)
				if err != nil {
					return err
				}
				res.User = identity
				return nil
			},
		},
	}}
}

// orphaned reports an account whose identity exists, whose password matches,
// and which has no profile row.
func (r *Registration) orphaned(ctx context.Context, p models.SignupProfile) (models.Identity, bool) {
	identity, err := r.identity.SignInWithPassword(ctx, p.Email, p.Password)
	if err != nil {
		return models.Identity{}, false
	}
	if _, err := r.records.GetProfile(ctx, identity.ID); !errors.Is(err, models.ErrProfileNotFound) {
		return models.Identity{}, false
	}
	return identity, true
}

func unwrapStep(err error) error {
	var se *StepError
	if errors.As(err, &se) {
		return se.Err
	}
	return err
}
