// File: gateway/memory.go
package gateway

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go-youth-feed/models"
	"golang.org/x/crypto/bcrypt"
)

// Memory is an in-process gateway used for local development and tests.
type Memory struct {
	mu       sync.Mutex
	now      func() time.Time
	seq      int64
	users    map[string]memoryUser // keyed by lower-cased email
	feeds    map[string]memoryFeed
	profiles map[string]models.Profile
	objects  map[string]StoredObject
	baseURL  string
}

type memoryUser struct {
	identity models.Identity
	hash     []byte
}

type memoryFeed struct {
	item models.FeedItem
	seq  int64
}

// StoredObject is an object held by the memory backend.
type StoredObject struct {
	ContentType string
	Data        []byte
}

// NewMemory returns an empty gateway whose public URLs start with baseURL.
func NewMemory(baseURL string) *Memory {
	return &Memory{
		now:      time.Now,
		users:    make(map[string]memoryUser),
		feeds:    make(map[string]memoryFeed),
		profiles: make(map[string]models.Profile),
		objects:  make(map[string]StoredObject),
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Gateway exposes m through the three gateway interfaces.
func (m *Memory) Gateway() Gateway {
	return Gateway{Identity: m, Records: m, Objects: m}
}

// ------------------- identity -------------------

func (m *Memory) SignUp(_ context.Context, email, password string, metadata map[string]string) (models.Identity, error) {
	if err := checkSignUp(email, password); err != nil {
		return models.Identity{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Identity{}, &models.AuthError{Op: "signUp", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := m.users[key]; exists {
		return models.Identity{}, &models.AuthError{Op: "signUp", Err: models.ErrEmailAlreadyRegistered}
	}

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	identity := models.Identity{ID: uuid.NewString(), Email: email, Metadata: meta}
	m.users[key] = memoryUser{identity: identity, hash: hash}
	return identity, nil
}

func (m *Memory) SignInWithPassword(_ context.Context, email, password string) (models.Identity, error) {
	m.mu.Lock()
	u, ok := m.users[strings.ToLower(email)]
	m.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return models.Identity{}, &models.AuthError{Op: "signInWithPassword", Err: models.ErrInvalidCredentials}
	}
	return u.identity, nil
}

// ------------------- records -------------------

func (m *Memory) ListFeeds(_ context.Context) ([]models.FeedItem, error) {
	m.mu.Lock()
	rows := make([]memoryFeed, 0, len(m.feeds))
	for _, f := range m.feeds {
		rows = append(rows, f)
	}
	m.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	items := make([]models.FeedItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, copyItem(r.item))
	}
	return items, nil
}

func (m *Memory) GetFeed(_ context.Context, id string) (models.FeedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.feeds[id]
	if !ok {
		return models.FeedItem{}, &models.PersistenceError{Op: "get feed", Err: models.ErrFeedNotFound}
	}
	return copyItem(f.item), nil
}

func (m *Memory) InsertFeed(_ context.Context, fields models.FeedFields) (models.FeedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	item := models.FeedItem{ID: uuid.NewString(), FeedFields: fields, CreatedAt: m.now()}
	item = copyItem(item)
	m.feeds[item.ID] = memoryFeed{item: item, seq: m.seq}
	return copyItem(item), nil
}

func (m *Memory) UpdateFeed(_ context.Context, id string, fields models.FeedFields) (models.FeedItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.feeds[id]
	if !ok {
		return models.FeedItem{}, &models.PersistenceError{Op: "update feed", Err: models.ErrFeedNotFound}
	}
	f.item.FeedFields = fields
	f.item = copyItem(f.item)
	m.feeds[id] = f
	return copyItem(f.item), nil
}

func (m *Memory) DeleteFeed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.feeds[id]; !ok {
		return &models.PersistenceError{Op: "delete feed", Err: models.ErrFeedNotFound}
	}
	delete(m.feeds, id)
	return nil
}

func (m *Memory) InsertProfile(_ context.Context, profile models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[profile.ID]; exists {
		return &models.PersistenceError{Op: "insert profile", Err: models.ErrProfileExists}
	}
	profile.CreatedAt = m.now()
	m.profiles[profile.ID] = profile
	return nil
}

func (m *Memory) GetProfile(_ context.Context, id string) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return models.Profile{}, &models.PersistenceError{Op: "get profile", Err: models.ErrProfileNotFound}
	}
	return p, nil
}

// ------------------- objects -------------------

func (m *Memory) Upload(_ context.Context, path, contentType string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[path] = StoredObject{ContentType: contentType, Data: append([]byte(nil), data...)}
	return nil
}

func (m *Memory) PublicURL(path string) string {
	return m.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Object returns a stored object for serving it back over HTTP.
func (m *Memory) Object(path string) (StoredObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.objects[strings.TrimLeft(path, "/")]
	return o, ok
}

func copyItem(item models.FeedItem) models.FeedItem {
	item.Tags = append([]string{}, item.Tags...)
	return item
}
