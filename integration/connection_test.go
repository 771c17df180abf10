//go:build integration
// +build integration

// integration/connection_test.go
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-youth-feed/controllers"
	"go-youth-feed/gateway"
	"go-youth-feed/services"
	feedws "go-youth-feed/websocket"
)

// startTestServer serves the feed API and /ws/feeds over a real listener.
func startTestServer(t *testing.T) (*httptest.Server, *feedws.Hub) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := feedws.NewHub(nil)
	go hub.Run(ctx)

	mem := gateway.NewMemory("")
	fc := controllers.NewFeedController(services.NewFeedService(mem, hub, nil), services.NewImageService(mem))

	router := gin.New()
	router.POST("/api/feeds", fc.CreateFeed)
	router.GET("/ws/feeds", gin.WrapF(hub.ServeWs(feedws.NewUpgrader(""))))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, hub
}

func TestViewerReceivesFeedsChanged(t *testing.T) {
	// Given: a viewer connected to /ws/feeds
	server, hub := startTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:]+"/ws/feeds", nil)
	require.NoError(t, err, "WebSocket connection should succeed")
	defer conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	// When: an item is created through the API
	body, _ := json.Marshal(map[string]any{"type": "Small", "title": "모임 안내", "tags": []string{"공부"}, "image_url": "https://x/a.png"})
	resp, err := http.Post(server.URL+"/api/feeds", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Then: the viewer is told to refresh
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var changed feedws.FeedsChangedMessage
	require.NoError(t, json.Unmarshal(msg, &changed))
	assert.Equal(t, "feedsChanged", changed.Action)
	assert.Equal(t, feedws.ChangeCreated, changed.Change)
	assert.NotEmpty(t, changed.ID)
}

func TestViewerDisconnectUnregisters(t *testing.T) {
	server, hub := startTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[4:]+"/ws/feeds", nil)
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	_ = conn.Close()

	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
