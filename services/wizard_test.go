// file: services/wizard_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-youth-feed/models"
)

func walk(t *testing.T, values ...string) WizardState {
	t.Helper()
	s := NewWizard()
	for _, v := range values {
		var err error
		s, err = Apply(s, Next(v))
		require.NoError(t, err)
	}
	return s
}

func TestWizard_NextAdvancesAndStores(t *testing.T) {
	s := walk(t, "홍길동", "hong@example.com", "미카엘")

	assert.Equal(t, 3, s.Step)
	assert.Equal(t, "userType", s.Field().Name)
	assert.Equal(t, "홍길동", s.Draft.Name)
	assert.Equal(t, "hong@example.com", s.Draft.Email)
	assert.Equal(t, "미카엘", s.Draft.Baptismal)
}

func TestWizard_NextRejectsEmpty(t *testing.T) {
	s := walk(t, "홍길동")

	next, err := Apply(s, Next("   "))

	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "이메일 항목을 입력해주세요.", vErr.Message())
	assert.Equal(t, s, next)
}

func TestWizard_NextRejectsUnknownUserType(t *testing.T) {
	s := walk(t, "홍길동", "hong@example.com", "미카엘")

	_, err := Apply(s, Next("adult"))

	assert.ErrorIs(t, err, models.ErrInvalidUserType)
}

func TestWizard_BackThenNextRestoresDraft(t *testing.T) {
	// Given: a wizard on the password step
	s := walk(t, "홍길동", "hong@example.com", "미카엘", "teacher")
	before := s

	// When: going back twice and forward again with the retained values
	s, err := Apply(s, Back())
	require.NoError(t, err)
	s, err = Apply(s, Back())
	require.NoError(t, err)
	assert.Equal(t, before.Draft, s.Draft)

	s, err = Apply(s, Next(s.Value()))
	require.NoError(t, err)
	s, err = Apply(s, Next(s.Value()))
	require.NoError(t, err)

	// Then: the state is exactly what it was
	assert.Equal(t, before, s)
}

func TestWizard_BoundaryTransitions(t *testing.T) {
	_, err := Apply(NewWizard(), Back())
	assert.ErrorIs(t, err, models.ErrWizardFirstStep)

	_, err = Apply(NewWizard(), Finish("x"))
	assert.ErrorIs(t, err, models.ErrWizardNotFinished)

	last := walk(t, "홍길동", "hong@example.com", "미카엘", "j1", "secret123")
	require.True(t, last.IsLast())
	_, err = Apply(last, Next("secret123"))
	assert.ErrorIs(t, err, models.ErrWizardFinished)
}

func TestWizard_FinishChecksPasswordMatch(t *testing.T) {
	last := walk(t, "홍길동", "hong@example.com", "미카엘", "j1", "secret123")

	// mismatch leaves the state untouched
	s, err := Apply(last, Finish("secret124"))
	require.Error(t, err)
	assert.Equal(t, "비밀번호가 일치하지 않습니다.", err.Error())
	assert.Equal(t, last, s)

	s, err = Apply(last, Finish("secret123"))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Step)
	assert.NoError(t, ValidateProfile(s.Draft))
}

func TestWizard_PasswordNotTrimmed(t *testing.T) {
	s := walk(t, "홍길동", "hong@example.com", "미카엘", "j1", " pass word ")
	assert.Equal(t, " pass word ", s.Draft.Password)
}
