// file: controllers/page_controller.go
package controllers

import (
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go-youth-feed/gateway"
	"go-youth-feed/logger"
	"go-youth-feed/models"
	"go-youth-feed/services"
)

// managerGradients colour the manager badge on feed cards.
var managerGradients = []string{
	"from-purple-400 to-pink-400",
	"from-blue-400 to-emerald-400",
	"from-yellow-400 to-orange-500",
	"from-red-400 to-pink-500",
	"from-green-400 to-cyan-400",
	"from-indigo-400 to-purple-400",
	"from-pink-400 to-rose-400",
	"from-teal-400 to-blue-400",
}

// gradientFor picks a badge gradient that stays the same for an item.
func gradientFor(id string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return managerGradients[h.Sum32()%uint32(len(managerGradients))]
}

// FeedCard is the feed page's view of one item.
type FeedCard struct {
	models.FeedItem
	Width    int
	Height   int
	Gradient string
}

func cardsFor(items []models.FeedItem) []FeedCard {
	cards := make([]FeedCard, 0, len(items))
	for _, it := range items {
		size := it.Size()
		cards = append(cards, FeedCard{FeedItem: it, Width: size.Width, Height: size.Height, Gradient: gradientFor(it.ID)})
	}
	return cards
}

// PageController renders the public pages.
type PageController struct {
	Feeds          services.FeedServiceInterface
	ApplicationURL string
	WebsocketURL   string
}

// NewPageController creates a PageController.
func NewPageController(feeds services.FeedServiceInterface, appURL, wsURL string) *PageController {
	logger.Info.Printf("NewPageController: ApplicationURL=%s, WebsocketURL=%s", appURL, wsURL)
	return &PageController{Feeds: feeds, ApplicationURL: strings.TrimRight(appURL, "/"), WebsocketURL: wsURL}
}

// Health reports liveness.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Landing renders the landing page.
func (pc *PageController) Landing(c *gin.Context) {
	c.HTML(http.StatusOK, "landing.html", gin.H{"User": currentUser(c), "IsAdmin": isAdminSession(c)})
}

// ShowFeed renders the read-only feed, newest first.
func (pc *PageController) ShowFeed(c *gin.Context) {
	items, err := pc.Feeds.List(c.Request.Context())
	if err != nil {
		logger.Error.Printf("ShowFeed: %v", err)
		c.HTML(http.StatusInternalServerError, "feed.html", gin.H{"Error": msgListFailed, "User": currentUser(c)})
		return
	}

	c.HTML(http.StatusOK, "feed.html", gin.H{
		"Cards":        cardsFor(items),
		"User":         currentUser(c),
		"IsAdmin":      isAdminSession(c),
		"WebsocketURL": pc.WebsocketURL,
	})
}

// GetQRCode serves a PNG QR code linking to the signup page.
func (pc *PageController) GetQRCode(c *gin.Context) {
	logger.Info.Println("GetQRCode: Generating QR code")

	qrBytes, err := services.GenerateQRCode(pc.ApplicationURL+"/signup", 300, 300, nil)
	if err != nil {
		logger.Error.Printf("GetQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", qrBytes)
}

// ServeStorage serves objects held by the in-memory gateway under /storage.
func ServeStorage(mem *gateway.Memory) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, ok := mem.Object(c.Param("path"))
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, obj.ContentType, obj.Data)
	}
}
