// Package websocket messenger.go: typed feed-change broadcasts.
// file: websocket/messenger.go
package websocket

import (
	"encoding/json"

	"go-youth-feed/logger"
)

// Feed change kinds carried in a feedsChanged message.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Messenger is an interface for broadcasting feed changes.
type Messenger interface {
	FeedsChanged(change, id string)
}

// FeedsChangedMessage tells viewers to re-fetch the feed list.
type FeedsChangedMessage struct {
	Action string `json:"action"`
	Change string `json:"change"`
	ID     string `json:"id"`
}

// FeedsChanged queues a feedsChanged message for every viewer. It never
// blocks; a full queue drops the message.
func (h *Hub) FeedsChanged(change, id string) {
	msg, err := json.Marshal(FeedsChangedMessage{Action: "feedsChanged", Change: change, ID: id})
	if err != nil {
		logger.Error.Printf("Hub: Error marshalling feedsChanged: %v", err)
		return
	}

	select {
	case h.broadcast <- msg:
		logger.Debug.Printf("Hub: feedsChanged queued (change=%s id=%s)", change, id)
	default:
		logger.Warn.Printf("Hub: broadcast queue full, dropping feedsChanged (change=%s id=%s)", change, id)
	}
}

// NoopMessenger drops every message.
type NoopMessenger struct{}

func (NoopMessenger) FeedsChanged(string, string) {}
