// Package gateway is the persistence gateway: identity, record and object
// storage behind small interfaces, with Postgres/S3 and in-memory backends.
// File: gateway/gateway.go
package gateway

import (
	"context"
	"database/sql"
	"unicode/utf8"

	"go-youth-feed/models"
)

// Identity is the identity provider.
type Identity interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (models.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (models.Identity, error)
}

// Records is the record store holding the feeds and profiles collections.
type Records interface {
	ListFeeds(ctx context.Context) ([]models.FeedItem, error)
	GetFeed(ctx context.Context, id string) (models.FeedItem, error)
	InsertFeed(ctx context.Context, fields models.FeedFields) (models.FeedItem, error)
	UpdateFeed(ctx context.Context, id string, fields models.FeedFields) (models.FeedItem, error)
	DeleteFeed(ctx context.Context, id string) error

	InsertProfile(ctx context.Context, profile models.Profile) error
	GetProfile(ctx context.Context, id string) (models.Profile, error)
}

// Objects is the public object store used for feed images.
type Objects interface {
	Upload(ctx context.Context, path, contentType string, data []byte) error
	PublicURL(path string) string
}

// Gateway bundles the three collaborators handed to services.
type Gateway struct {
	Identity Identity
	Records  Records
	Objects  Objects
}

// DBTX is the subset of database/sql used by the Postgres backend.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MinPasswordLength is the provider password policy.
const MinPasswordLength = 6

// checkSignUp applies the provider's input policy shared by every backend.
func checkSignUp(email, password string) error {
	if !looksLikeEmail(email) {
		return &models.AuthError{Op: "signUp", Err: models.ErrInvalidEmail}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &models.AuthError{Op: "signUp", Err: models.ErrWeakPassword}
	}
	return nil
}

func looksLikeEmail(email string) bool {
	at := -1
	for i, r := range email {
		switch {
		case r == '@':
			if at >= 0 {
				return false
			}
			at = i
		case r == ' ':
			return false
		}
	}
	return at > 0 && at < len(email)-1
}
