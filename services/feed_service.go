// Package services holds the application logic between the HTTP handlers and
// the persistence gateway.
// file: services/feed_service.go
package services

import (
	"context"
	"strings"

	"go-youth-feed/gateway"
	"go-youth-feed/logger"
	"go-youth-feed/metrics"
	"go-youth-feed/models"
	"go-youth-feed/websocket"
)

// FeedServiceInterface is what the feed handlers depend on.
type FeedServiceInterface interface {
	List(ctx context.Context) ([]models.FeedItem, error)
	Get(ctx context.Context, id string) (models.FeedItem, error)
	Create(ctx context.Context, fields models.FeedFields) (models.FeedItem, error)
	Update(ctx context.Context, id string, fields models.FeedFields) (models.FeedItem, error)
	Delete(ctx context.Context, id string) error
}

// FeedService implements the feed repository operations over a record store.
type FeedService struct {
	records   gateway.Records
	messenger websocket.Messenger
	metrics   metrics.Publisher
}

var _ FeedServiceInterface = (*FeedService)(nil)

// NewFeedService wires a FeedService. Nil collaborators become no-ops.
func NewFeedService(records gateway.Records, messenger websocket.Messenger, pub metrics.Publisher) *FeedService {
	if messenger == nil {
		messenger = websocket.NoopMessenger{}
	}
	if pub == nil {
		pub = metrics.Noop{}
	}
	return &FeedService{records: records, messenger: messenger, metrics: pub}
}

// List returns every feed item, newest first.
func (s *FeedService) List(ctx context.Context) ([]models.FeedItem, error) {
	items, err := s.records.ListFeeds(ctx)
	if err != nil {
		logger.Error.Printf("FeedService: list failed: %v", err)
		return nil, err
	}
	logger.Debug.Printf("FeedService: listed %d feeds", len(items))
	return items, nil
}

// Get loads one feed item.
func (s *FeedService) Get(ctx context.Context, id string) (models.FeedItem, error) {
	id, err := checkID(id)
	if err != nil {
		return models.FeedItem{}, err
	}
	return s.records.GetFeed(ctx, id)
}

// Create validates the type and tags and inserts a new item. The image URL
// is the editor's responsibility and is not checked here.
func (s *FeedService) Create(ctx context.Context, fields models.FeedFields) (models.FeedItem, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return models.FeedItem{}, err
	}

	item, err := s.records.InsertFeed(ctx, fields)
	if err != nil {
		logger.Error.Printf("FeedService: insert failed: %v", err)
		return models.FeedItem{}, err
	}

	logger.Info.Printf("FeedService: created feed %s (%s)", item.ID, item.Type)
	s.metrics.Count(metrics.FeedCreated)
	s.messenger.FeedsChanged(websocket.ChangeCreated, item.ID)
	return item, nil
}

// Update replaces all six mutable fields of an item.
func (s *FeedService) Update(ctx context.Context, id string, fields models.FeedFields) (models.FeedItem, error) {
	id, err := checkID(id)
	if err != nil {
		return models.FeedItem{}, err
	}
	fields, err = fields.Normalize()
	if err != nil {
		return models.FeedItem{}, err
	}

	item, err := s.records.UpdateFeed(ctx, id, fields)
	if err != nil {
		logger.Error.Printf("FeedService: update %s failed: %v", id, err)
		return models.FeedItem{}, err
	}

	logger.Info.Printf("FeedService: updated feed %s", id)
	s.metrics.Count(metrics.FeedUpdated)
	s.messenger.FeedsChanged(websocket.ChangeUpdated, id)
	return item, nil
}

// Delete removes an item by id.
func (s *FeedService) Delete(ctx context.Context, id string) error {
	id, err := checkID(id)
	if err != nil {
		return err
	}

	if err := s.records.DeleteFeed(ctx, id); err != nil {
		logger.Error.Printf("FeedService: delete %s failed: %v", id, err)
		return err
	}

	logger.Info.Printf("FeedService: deleted feed %s", id)
	s.metrics.Count(metrics.FeedDeleted)
	s.messenger.FeedsChanged(websocket.ChangeDeleted, id)
	return nil
}

func checkID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", models.NewValidationError("id", models.ErrInvalidFeedID)
	}
	return id, nil
}
