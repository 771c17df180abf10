// File: models/feed.go
package models

import (
	"strings"
	"time"
)

// ----------------------- feed types -----------------------

// FeedType is the size class of a feed card.
type FeedType string

const (
	FeedLarge  FeedType = "Large"
	FeedMedium FeedType = "Medium"
	FeedSmall  FeedType = "Small"
)

// FeedSize is the fixed display box bound to a FeedType.
type FeedSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var feedSizes = map[FeedType]FeedSize{
	FeedLarge:  {Width: 320, Height: 468},
	FeedMedium: {Width: 320, Height: 366},
	FeedSmall:  {Width: 320, Height: 200},
}

// FeedTypes lists the size classes in display order.
var FeedTypes = []FeedType{FeedLarge, FeedMedium, FeedSmall}

// Valid reports whether t is one of the known size classes.
func (t FeedType) Valid() bool {
	_, ok := feedSizes[t]
	return ok
}

// Size returns the width/height pair for t. Unknown types fall back to Large.
func (t FeedType) Size() FeedSize {
	if s, ok := feedSizes[t]; ok {
		return s
	}
	return feedSizes[FeedLarge]
}

// ----------------------- tags -----------------------

// Tag is one entry of the fixed tag vocabulary.
type Tag struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Tags is the fixed vocabulary, in display order. Labels are what gets stored.
var Tags = []Tag{
	{Key: "event", Label: "이벤트"},
	{Key: "study", Label: "공부"},
	{Key: "camp", Label: "캠프"},
	{Key: "mass", Label: "미사"},
	{Key: "practice", Label: "연습"},
}

// NormalizeTag maps a key or label to its stored label.
func NormalizeTag(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, t := range Tags {
		if raw == t.Label || strings.EqualFold(raw, t.Key) {
			return t.Label, true
		}
	}
	return "", false
}

// NormalizeTags validates tags against the vocabulary, keeping first-seen order
// and dropping duplicates.
func NormalizeTags(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		label, ok := NormalizeTag(r)
		if !ok {
			return nil, NewValidationError("tags", ErrInvalidTag)
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	return out, nil
}

// ----------------------- feed item -----------------------

// FeedFields are the six mutable fields of a feed item.
type FeedFields struct {
	Type     FeedType `json:"type"`
	Title    string   `json:"title"`
	Manager  string   `json:"manager"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	ImageURL string   `json:"image_url"`
}

// FeedItem is a content card shown in the activity feed.
type FeedItem struct {
	ID string `json:"id"`
	FeedFields
	CreatedAt time.Time `json:"created_at"`
}

// Normalize checks the type and tag set at the API boundary.
func (f FeedFields) Normalize() (FeedFields, error) {
	if f.Type == "" {
		f.Type = FeedLarge
	}
	if !f.Type.Valid() {
		return f, NewValidationError("type", ErrInvalidFeedType)
	}
	tags, err := NormalizeTags(f.Tags)
	if err != nil {
		return f, err
	}
	f.Tags = tags
	return f, nil
}

// Size is the display box of the item.
func (f FeedItem) Size() FeedSize {
	return f.Type.Size()
}
