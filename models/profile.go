// File: models/profile.go
package models

import "time"

// UserType is the grade level or role chosen during signup.
type UserType string

// UserTypeOption pairs a stored value with its display label.
type UserTypeOption struct {
	Value UserType
	Label string
}

// UserTypes lists the selectable user types in display order.
var UserTypes = []UserTypeOption{
	{Value: "j1", Label: "중1"},
	{Value: "j2", Label: "중2"},
	{Value: "j3", Label: "중3"},
	{Value: "h1", Label: "고1"},
	{Value: "h2", Label: "고2"},
	{Value: "h3", Label: "고3"},
	{Value: "teacher", Label: "선생님"},
}

// Valid reports whether u is a known user type.
func (u UserType) Valid() bool {
	for _, o := range UserTypes {
		if o.Value == u {
			return true
		}
	}
	return false
}

// SignupProfile accumulates wizard input until submission.
type SignupProfile struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Baptismal       string   `json:"baptismal"`
	UserType        UserType `json:"userType"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
}

// Metadata is the bag sent to the identity provider with a new identity.
func (p SignupProfile) Metadata() map[string]string {
	return map[string]string{
		"name":      p.Name,
		"baptismal": p.Baptismal,
		"userType":  string(p.UserType),
	}
}

// Identity is an account at the identity provider.
type Identity struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Metadata map[string]string `json:"user_metadata,omitempty"`
}

// Profile is the persisted profile row keyed by the identity id.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Baptismal string    `json:"baptismal"`
	UserType  UserType  `json:"userType"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileFor builds the profile row for identity from p. The password never
// leaves the identity provider.
func ProfileFor(identity Identity, p SignupProfile) Profile {
	return Profile{
		ID:        identity.ID,
		Email:     identity.Email,
		Name:      p.Name,
		Baptismal: p.Baptismal,
		UserType:  p.UserType,
	}
}
