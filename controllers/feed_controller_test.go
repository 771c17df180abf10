// file: controllers/feed_controller_test.go
package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go-youth-feed/gateway"
	"go-youth-feed/models"
	"go-youth-feed/services"
)

func setupFeedAPI(t *testing.T, records gateway.Records, objects gateway.Objects) *gin.Engine {
	router := setupTestRouter(t)
	fc := NewFeedController(services.NewFeedService(records, nil, nil), services.NewImageService(objects))
	router.GET("/api/feeds", fc.ListFeeds)
	router.POST("/api/feeds", fc.CreateFeed)
	router.DELETE("/api/feeds/del", fc.DeleteFeedByBody)
	router.GET("/api/feeds/:id", fc.GetFeed)
	router.PUT("/api/feeds/:id", fc.UpdateFeed)
	router.DELETE("/api/feeds/:id", fc.DeleteFeed)
	router.POST("/api/uploads", fc.UploadImage)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateFeed_EchoesFieldsAndListsFirst(t *testing.T) {
	// Given: a feed API over an in-memory gateway with one existing item
	mem := gateway.NewMemory("")
	router := setupFeedAPI(t, mem, mem)
	w := doJSON(router, "POST", "/api/feeds", gin.H{"type": "Large", "title": "older", "image_url": "https://x/b.png"})
	require.Equal(t, http.StatusOK, w.Code)

	// When: the sample item is posted
	w = doJSON(router, "POST", "/api/feeds", gin.H{
		"type": "Small", "title": "모임 안내", "manager": "김OO", "content": "이번주 모임",
		"tags": []string{"공부"}, "image_url": "https://x/a.png",
	})

	// Then: the response echoes the fields plus an id
	require.Equal(t, http.StatusOK, w.Code)
	var created models.FeedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.FeedSmall, created.Type)
	assert.Equal(t, "모임 안내", created.Title)
	assert.Equal(t, "김OO", created.Manager)
	assert.Equal(t, "이번주 모임", created.Content)
	assert.Equal(t, []string{"공부"}, created.Tags)
	assert.Equal(t, "https://x/a.png", created.ImageURL)

	// And: it comes first in the list
	w = doJSON(router, "GET", "/api/feeds", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.FeedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, created.ID, items[0].ID)
}

func TestCreateFeed_InvalidTagIs400(t *testing.T) {
	mem := gateway.NewMemory("")
	router := setupFeedAPI(t, mem, mem)

	w := doJSON(router, "POST", "/api/feeds", gin.H{"type": "Small", "tags": []string{"party"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid tag")
}

func TestCreateFeed_StoreFailureIsGeneric(t *testing.T) {
	records := new(services.MockRecords)
	records.On("InsertFeed", mock.Anything, mock.Anything).
		Return(models.FeedItem{}, &models.PersistenceError{Op: "insert feed", Err: errors.New("duplicate key value violates unique constraint")})
	router := setupFeedAPI(t, records, gateway.NewMemory(""))

	w := doJSON(router, "POST", "/api/feeds", gin.H{"type": "Small", "title": "t"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"피드 생성 중 오류가 발생했습니다."}`, w.Body.String())
}

func TestListFeeds_Failure(t *testing.T) {
	records := new(services.MockRecords)
	records.On("ListFeeds", mock.Anything).Return(nil, &models.PersistenceError{Op: "list feeds", Err: errors.New("timeout")})
	router := setupFeedAPI(t, records, gateway.NewMemory(""))

	w := doJSON(router, "GET", "/api/feeds", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"피드를 불러오는데 실패했습니다"}`, w.Body.String())
}

func TestDeleteFeedByBody(t *testing.T) {
	mem := gateway.NewMemory("")
	router := setupFeedAPI(t, mem, mem)
	item, err := mem.InsertFeed(t.Context(), models.FeedFields{Type: models.FeedLarge, Tags: []string{}})
	require.NoError(t, err)

	// existing id
	w := doJSON(router, "DELETE", "/api/feeds/del", gin.H{"id": item.ID})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"피드가 성공적으로 삭제되었습니다."}`, w.Body.String())

	// missing id
	w = doJSON(router, "DELETE", "/api/feeds/del", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"ID가 필요합니다."}`, w.Body.String())
}

func TestDeleteFeed_NonExistentIsGenericFailure(t *testing.T) {
	// Given: a store holding one item
	mem := gateway.NewMemory("")
	router := setupFeedAPI(t, mem, mem)
	_, err := mem.InsertFeed(t.Context(), models.FeedFields{Type: models.FeedLarge, Tags: []string{}})
	require.NoError(t, err)

	// When: deleting an id that does not exist
	w := doJSON(router, "DELETE", "/api/feeds/del", gin.H{"id": "nope"})

	// Then: a generic failure and no mutation
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"피드 삭제 중 오류가 발생했습니다."}`, w.Body.String())
	items, _ := mem.ListFeeds(t.Context())
	assert.Len(t, items, 1)
}

func TestGetAndUpdateFeed(t *testing.T) {
	mem := gateway.NewMemory("")
	router := setupFeedAPI(t, mem, mem)
	item, err := mem.InsertFeed(t.Context(), models.FeedFields{Type: models.FeedLarge, Title: "old", Tags: []string{}})
	require.NoError(t, err)

	w := doJSON(router, "GET", "/api/feeds/"+item.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"title":"old"`)

	w = doJSON(router, "PUT", "/api/feeds/"+item.ID, gin.H{"type": "Medium", "title": "new", "tags": []string{"mass"}})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.FeedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, []string{"미사"}, updated.Tags)

	w = doJSON(router, "GET", "/api/feeds/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "PUT", "/api/feeds/missing", gin.H{"type": "Medium"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"피드 수정에 실패했습니다."}`, w.Body.String())
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if data != nil {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	mem := gateway.NewMemory("http://localhost:8080/storage")
	router := setupFeedAPI(t, mem, mem)

	body, ct := multipartBody(t, "file", "photo.png", []byte("\x89PNG\r\n\x1a\nrest"))
	req, _ := http.NewRequest("POST", "/api/uploads", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Regexp(t, `^http://localhost:8080/storage/feeds/[0-9a-f-]{36}\.png$`, resp["image_url"])
}

func TestUploadImage_StoreFailure(t *testing.T) {
	objects := new(services.MockObjects)
	objects.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("denied"))
	router := setupFeedAPI(t, gateway.NewMemory(""), objects)

	body, ct := multipartBody(t, "file", "photo.png", []byte("data"))
	req, _ := http.NewRequest("POST", "/api/uploads", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"이미지 업로드에 실패했습니다."}`, w.Body.String())
}

func TestUploadImage_MissingFile(t *testing.T) {
	mem := gateway.NewMemory("")
	router := setupFeedAPI(t, mem, mem)

	body, ct := multipartBody(t, "file", "", nil)
	req, _ := http.NewRequest("POST", "/api/uploads", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
