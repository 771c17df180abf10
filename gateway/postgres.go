// File: gateway/postgres.go
package gateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go-youth-feed/gateway/migrations"
	"go-youth-feed/logger"
	"go-youth-feed/models"
	"golang.org/x/crypto/bcrypt"
)

const (
	feedColumns = `id, type, title, manager, content, tags, image_url, created_at`

	listFeedsQuery  = `SELECT ` + feedColumns + ` FROM feeds ORDER BY created_at DESC`
	getFeedQuery    = `SELECT ` + feedColumns + ` FROM feeds WHERE id = $1`
	insertFeedQuery = `INSERT INTO feeds (type, title, manager, content, tags, image_url)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		RETURNING ` + feedColumns
	updateFeedQuery = `UPDATE feeds
		SET type = $1, title = $2, manager = $3, content = $4, tags = $5::jsonb, image_url = $6
		WHERE id = $7
		RETURNING ` + feedColumns
	deleteFeedQuery = `DELETE FROM feeds WHERE id = $1`

	insertProfileQuery = `INSERT INTO profiles (id, email, name, baptismal, user_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`
	getProfileQuery = `SELECT id, email, name, baptismal, user_type, created_at FROM profiles WHERE id = $1`

	signUpQuery = `INSERT INTO auth_users (email, password_hash, metadata)
		VALUES (lower($1), $2, $3::jsonb)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email`
	signInQuery = `SELECT id, email, password_hash, metadata FROM auth_users WHERE email = lower($1)`
)

// Postgres implements Identity and Records on a Postgres database.
type Postgres struct {
	db   DBTX
	conn *sql.DB
}

// NewPostgres wraps an existing handle. Migrations are not run.
func NewPostgres(db DBTX) *Postgres {
	p := &Postgres{db: db}
	if conn, ok := db.(*sql.DB); ok {
		p.conn = conn
	}
	return p
}

// OpenPostgres connects with the pgx driver and applies the embedded migrations.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	logger.Info.Println("OpenPostgres: connected to the database")

	p := NewPostgres(conn)
	if err := p.RunMigrations(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return p, nil
}

// RunMigrations applies the embedded goose migrations.
func (p *Postgres) RunMigrations(ctx context.Context) error {
	if p.conn == nil {
		return errors.New("migrations need a *sql.DB")
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, p.conn, "."); err != nil {
		return err
	}
	logger.Info.Println("RunMigrations: database migrations completed")
	return nil
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// ------------------- identity -------------------

func (p *Postgres) SignUp(ctx context.Context, email, password string, metadata map[string]string) (models.Identity, error) {
	if err := checkSignUp(email, password); err != nil {
		return models.Identity{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Identity{}, &models.AuthError{Op: "signUp", Err: err}
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return models.Identity{}, &models.AuthError{Op: "signUp", Err: err}
	}

	identity := models.Identity{Metadata: metadata}
	err = p.db.QueryRowContext(ctx, signUpQuery, email, string(hash), string(meta)).Scan(&identity.ID, &identity.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Identity{}, &models.AuthError{Op: "signUp", Err: models.ErrEmailAlreadyRegistered}
		}
		return models.Identity{}, &models.PersistenceError{Op: "sign up", Err: err}
	}
	return identity, nil
}

func (p *Postgres) SignInWithPassword(ctx context.Context, email, password string) (models.Identity, error) {
	var (
		identity models.Identity
		hash     string
		meta     []byte
	)
	err := p.db.QueryRowContext(ctx, signInQuery, email).Scan(&identity.ID, &identity.Email, &hash, &meta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Identity{}, &models.AuthError{Op: "signInWithPassword", Err: models.ErrInvalidCredentials}
		}
		return models.Identity{}, &models.PersistenceError{Op: "sign in", Err: err}
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return models.Identity{}, &models.AuthError{Op: "signInWithPassword", Err: models.ErrInvalidCredentials}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &identity.Metadata); err != nil {
			logger.Warn.Printf("SignInWithPassword: bad metadata for %s: %v", identity.ID, err)
		}
	}
	return identity, nil
}

// ------------------- feeds -------------------

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (models.FeedItem, error) {
	var (
		item models.FeedItem
		typ  string
		tags []byte
	)
	if err := row.Scan(&item.ID, &typ, &item.Title, &item.Manager, &item.Content, &tags, &item.ImageURL, &item.CreatedAt); err != nil {
		return models.FeedItem{}, err
	}
	item.Type = models.FeedType(typ)
	item.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return models.FeedItem{}, fmt.Errorf("decode tags: %w", err)
		}
	}
	return item, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	return string(b), err
}

func (p *Postgres) ListFeeds(ctx context.Context) ([]models.FeedItem, error) {
	rows, err := p.db.QueryContext(ctx, listFeedsQuery)
	if err != nil {
		return nil, &models.PersistenceError{Op: "list feeds", Err: err}
	}
	defer rows.Close()

	items := []models.FeedItem{}
	for rows.Next() {
		item, err := scanFeed(rows)
		if err != nil {
			return nil, &models.PersistenceError{Op: "scan feed", Err: err}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.PersistenceError{Op: "list feeds", Err: err}
	}
	return items, nil
}

func (p *Postgres) GetFeed(ctx context.Context, id string) (models.FeedItem, error) {
	item, err := scanFeed(p.db.QueryRowContext(ctx, getFeedQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrFeedNotFound
		}
		return models.FeedItem{}, &models.PersistenceError{Op: "get feed", Err: err}
	}
	return item, nil
}

func (p *Postgres) InsertFeed(ctx context.Context, f models.FeedFields) (models.FeedItem, error) {
	tags, err := encodeTags(f.Tags)
	if err != nil {
		return models.FeedItem{}, &models.PersistenceError{Op: "insert feed", Err: err}
	}
	item, err := scanFeed(p.db.QueryRowContext(ctx, insertFeedQuery,
		string(f.Type), f.Title, f.Manager, f.Content, tags, f.ImageURL))
	if err != nil {
		return models.FeedItem{}, &models.PersistenceError{Op: "insert feed", Err: err}
	}
	return item, nil
}

func (p *Postgres) UpdateFeed(ctx context.Context, id string, f models.FeedFields) (models.FeedItem, error) {
	tags, err := encodeTags(f.Tags)
	if err != nil {
		return models.FeedItem{}, &models.PersistenceError{Op: "update feed", Err: err}
	}
	item, err := scanFeed(p.db.QueryRowContext(ctx, updateFeedQuery,
		string(f.Type), f.Title, f.Manager, f.Content, tags, f.ImageURL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrFeedNotFound
		}
		return models.FeedItem{}, &models.PersistenceError{Op: "update feed", Err: err}
	}
	return item, nil
}

func (p *Postgres) DeleteFeed(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, deleteFeedQuery, id)
	if err != nil {
		return &models.PersistenceError{Op: "delete feed", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.PersistenceError{Op: "delete feed", Err: err}
	}
	if n == 0 {
		return &models.PersistenceError{Op: "delete feed", Err: models.ErrFeedNotFound}
	}
	return nil
}

// ------------------- profiles -------------------

func (p *Postgres) InsertProfile(ctx context.Context, pr models.Profile) error {
	res, err := p.db.ExecContext(ctx, insertProfileQuery, pr.ID, pr.Email, pr.Name, pr.Baptismal, string(pr.UserType))
	if err != nil {
		return &models.PersistenceError{Op: "insert profile", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &models.PersistenceError{Op: "insert profile", Err: err}
	}
	if n == 0 {
		return &models.PersistenceError{Op: "insert profile", Err: models.ErrProfileExists}
	}
	return nil
}

func (p *Postgres) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	var (
		pr       models.Profile
		userType string
	)
	err := p.db.QueryRowContext(ctx, getProfileQuery, id).Scan(&pr.ID, &pr.Email, &pr.Name, &pr.Baptismal, &userType, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = models.ErrProfileNotFound
		}
		return models.Profile{}, &models.PersistenceError{Op: "get profile", Err: err}
	}
	pr.UserType = models.UserType(userType)
	return pr, nil
}
