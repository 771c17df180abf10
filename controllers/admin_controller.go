// file: controllers/admin_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go-youth-feed/logger"
	"go-youth-feed/models"
	"go-youth-feed/services"
)

// ---------------- Admin Controller ----------------

// AdminController renders the feed editor: a create form with the list of
// existing items, and an edit form per item.
type AdminController struct {
	Feeds  services.FeedServiceInterface
	Images *services.ImageService
}

// NewAdminController creates an AdminController.
func NewAdminController(feeds services.FeedServiceInterface, images *services.ImageService) *AdminController {
	return &AdminController{Feeds: feeds, Images: images}
}

type typeOption struct {
	Value    models.FeedType
	Width    int
	Height   int
	Selected bool
}

type tagOption struct {
	Key      string
	Label    string
	Selected bool
}

// editorView is everything the editor templates render.
func editorView(d models.FeedDraft, msg string) gin.H {
	types := make([]typeOption, 0, len(models.FeedTypes))
	for _, t := range models.FeedTypes {
		size := t.Size()
		types = append(types, typeOption{Value: t, Width: size.Width, Height: size.Height, Selected: t == d.Fields.Type})
	}
	tags := make([]tagOption, 0, len(models.Tags))
	for _, t := range models.Tags {
		tags = append(tags, tagOption{Key: t.Key, Label: t.Label, Selected: d.HasTag(t.Label)})
	}

	action := "/admin/feed"
	if d.Mode == models.ModeEdit {
		action = "/admin/feed/edit/" + d.ID
	}
	return gin.H{
		"Draft":  d,
		"IsEdit": d.Mode == models.ModeEdit,
		"Action": action,
		"Size":   d.Fields.Type.Size(),
		"Types":  types,
		"Tags":   tags,
		"Error":  msg,
	}
}

// draftFromForm rebuilds the editor draft from a posted form.
func draftFromForm(c *gin.Context, mode models.EditorMode, id string) models.FeedDraft {
	d := models.NewFeedDraft()
	d.Mode = mode
	d.ID = id

	if t := models.FeedType(c.PostForm("type")); t != "" {
		d.Fields.Type = t
	}
	d.Fields.Title = strings.TrimSpace(c.PostForm("title"))
	d.Fields.Manager = strings.TrimSpace(c.PostForm("manager"))
	d.Fields.Content = c.PostForm("content")
	d.Fields.ImageURL = c.PostForm("image_url")

	raw := c.PostFormArray("tags")
	if tags, err := models.NormalizeTags(raw); err == nil {
		d.Fields.Tags = tags
	} else {
		d.Fields.Tags = raw
	}
	return d
}

// ---------------- pages ----------------

// ShowEditor renders the create form and the existing items.
func (ac *AdminController) ShowEditor(c *gin.Context) {
	ac.renderCreate(c, http.StatusOK, models.NewFeedDraft(), "")
}

// ShowEditForm loads one item into the edit form.
func (ac *AdminController) ShowEditForm(c *gin.Context) {
	item, err := ac.Feeds.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		status, msg := errorMessage(err, msgGetFailed)
		if isNotFound(err) {
			status = http.StatusNotFound
		}
		logger.Warn.Printf("ShowEditForm: %v", err)
		c.HTML(status, "admin_feed_edit.html", gin.H{"Error": msg})
		return
	}
	c.HTML(http.StatusOK, "admin_feed_edit.html", editorView(models.EditDraft(item), ""))
}

// SubmitCreate handles the create form. A "toggle" field flips one tag, action=upload
// stores the posted image and anything else saves the draft.
func (ac *AdminController) SubmitCreate(c *gin.Context) {
	d := draftFromForm(c, models.ModeCreate, "")
	ac.submit(c, d, func(status int, d models.FeedDraft, msg string) {
		ac.renderCreate(c, status, d, msg)
	})
}

// SubmitEdit handles the edit form's toggle, upload and save actions.
func (ac *AdminController) SubmitEdit(c *gin.Context) {
	d := draftFromForm(c, models.ModeEdit, c.Param("id"))
	ac.submit(c, d, func(status int, d models.FeedDraft, msg string) {
		c.HTML(status, "admin_feed_edit.html", editorView(d, msg))
	})
}

// DeleteItem deletes one item and returns to the editor.
func (ac *AdminController) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	if err := ac.Feeds.Delete(c.Request.Context(), id); err != nil {
		status, msg := errorMessage(err, msgDeleteFailed)
		logger.Error.Printf("DeleteItem: %v", err)
		ac.renderCreate(c, status, models.NewFeedDraft(), msg)
		return
	}
	logger.Info.Printf("DeleteItem: deleted %s", id)
	c.Redirect(http.StatusFound, "/admin/feed")
}

func (ac *AdminController) renderCreate(c *gin.Context, status int, d models.FeedDraft, msg string) {
	view := editorView(d, msg)
	items, err := ac.Feeds.List(c.Request.Context())
	if err != nil {
		logger.Error.Printf("renderCreate: %v", err)
		if msg == "" {
			view["Error"] = msgListFailed
		}
	}
	view["Items"] = cardsFor(items)
	c.HTML(status, "admin_feed.html", view)
}

func (ac *AdminController) submit(c *gin.Context, d models.FeedDraft, render func(int, models.FeedDraft, string)) {
	action := c.PostForm("action")
	tag := c.PostForm("toggle")
	if tag != "" {
		action = "toggle"
	}

	switch action {
	case "toggle":
		next, err := d.ToggleTag(tag)
		if err != nil {
			_, msg := errorMessage(err, err.Error())
			render(http.StatusBadRequest, d, msg)
			return
		}
		render(http.StatusOK, next, "")

	case "upload":
		fh, err := c.FormFile("image")
		if err != nil {
			render(http.StatusBadRequest, d, models.ErrImageRequired.Error())
			return
		}
		url, err := uploadFile(c, ac.Images, fh)
		if err != nil {
			status, msg := errorMessage(err, msgUploadFailed)
			logger.Error.Printf("AdminController: upload failed: %v", err)
			render(status, d, msg)
			return
		}
		render(http.StatusOK, d.SetImage(url), "")

	default:
		fields, err := d.Submission()
		if err != nil {
			_, msg := errorMessage(err, err.Error())
			logger.Warn.Printf("AdminController: draft rejected: %v", err)
			render(http.StatusBadRequest, d, msg)
			return
		}

		if d.Mode == models.ModeEdit {
			_, err = ac.Feeds.Update(c.Request.Context(), d.ID, fields)
		} else {
			_, err = ac.Feeds.Create(c.Request.Context(), fields)
		}
		if err != nil {
			fallback := msgCreateFailed
			if d.Mode == models.ModeEdit {
				fallback = msgUpdateFailed
			}
			status, msg := errorMessage(err, fallback)
			render(status, d, msg)
			return
		}
		c.Redirect(http.StatusFound, "/admin/feed")
	}
}
