// file: controllers/feed_controller.go
package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go-youth-feed/logger"
	"go-youth-feed/models"
	"go-youth-feed/services"
)

// Failure messages of the feed API.
const (
	msgListFailed   = "피드를 불러오는데 실패했습니다"
	msgGetFailed    = "피드를 찾을 수 없습니다."
	msgCreateFailed = "피드 생성 중 오류가 발생했습니다."
	msgUpdateFailed = "피드 수정에 실패했습니다."
	msgDeleteOK     = "피드가 성공적으로 삭제되었습니다."
	msgDeleteFailed = "피드 삭제 중 오류가 발생했습니다."
	msgUploadFailed = "이미지 업로드에 실패했습니다."
	msgBadRequest   = "잘못된 요청입니다."
)

// FeedController serves the feed JSON API.
type FeedController struct {
	Feeds  services.FeedServiceInterface
	Images *services.ImageService
}

// NewFeedController creates a FeedController.
func NewFeedController(feeds services.FeedServiceInterface, images *services.ImageService) *FeedController {
	return &FeedController{Feeds: feeds, Images: images}
}

// ListFeeds handles GET /api/feeds.
func (fc *FeedController) ListFeeds(c *gin.Context) {
	items, err := fc.Feeds.List(c.Request.Context())
	if err != nil {
		respondError(c, "ListFeeds", err, msgListFailed)
		return
	}
	logger.Debug.Printf("ListFeeds: returning %d feeds", len(items))
	c.JSON(http.StatusOK, items)
}

// GetFeed handles GET /api/feeds/:id.
func (fc *FeedController) GetFeed(c *gin.Context) {
	item, err := fc.Feeds.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := errorMessage(err, msgGetFailed)
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		logger.Warn.Printf("GetFeed: %v", err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateFeed handles POST /api/feeds.
func (fc *FeedController) CreateFeed(c *gin.Context) {
	var fields models.FeedFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		logger.Warn.Printf("CreateFeed: invalid body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	item, err := fc.Feeds.Create(c.Request.Context(), fields)
	if err != nil {
		respondError(c, "CreateFeed", err, msgCreateFailed)
		return
	}
	logger.Info.Printf("CreateFeed: created %s", item.ID)
	c.JSON(http.StatusOK, item)
}

// UpdateFeed handles PUT /api/feeds/:id.
func (fc *FeedController) UpdateFeed(c *gin.Context) {
	var fields models.FeedFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		logger.Warn.Printf("UpdateFeed: invalid body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadRequest})
		return
	}

	item, err := fc.Feeds.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		respondError(c, "UpdateFeed", err, msgUpdateFailed)
		return
	}
	c.JSON(http.StatusOK, item)
}

type deleteRequest struct {
	ID string `json:"id"`
}

// DeleteFeedByBody handles DELETE /api/feeds/del with a {"id": ...} body.
func (fc *FeedController) DeleteFeedByBody(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn.Printf("DeleteFeedByBody: invalid body: %v", err)
	}
	fc.deleteFeed(c, req.ID)
}

// DeleteFeed handles DELETE /api/feeds/:id.
func (fc *FeedController) DeleteFeed(c *gin.Context) {
	fc.deleteFeed(c, c.Param("id"))
}

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrFeedNotFound)
}

func (fc *FeedController) deleteFeed(c *gin.Context, id string) {
	if err := fc.Feeds.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "DeleteFeed", err, msgDeleteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgDeleteOK})
}

// UploadImage handles POST /api/uploads with a multipart "file" field.
func (fc *FeedController) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		logger.Warn.Printf("UploadImage: missing file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrImageRequired.Error()})
		return
	}

	url, err := uploadFile(c, fc.Images, fh)
	if err != nil {
		respondError(c, "UploadImage", err, msgUploadFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

// uploadFile reads a multipart file and hands it to the image service.
func uploadFile(c *gin.Context, images *services.ImageService, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", &models.UploadError{Path: fh.Filename, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", &models.UploadError{Path: fh.Filename, Err: err}
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return images.Upload(c.Request.Context(), fh.Filename, contentType, data)
}
