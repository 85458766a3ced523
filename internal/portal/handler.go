package portal

import (
	"net/http"
	"time"

	"campus-portal/internal/logger"
	"campus-portal/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handler serves the notice, event, note and post endpoints. It obtains
// the caller's identity from the auth middleware; it never inspects the
// session credential itself.
type Handler struct {
	store   Store
	uploads *Uploads
}

func NewHandler(store Store, uploads *Uploads) *Handler {
	return &Handler{
		store:   store,
		uploads: uploads,
	}
}

// RegisterRoutes wires the content endpoints. Reads on notices, events
// and posts are public; notes require a session; writes are gated by
// role where the original portal gated them.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth *middleware.Auth) {
	r.GET("/api/notices", h.ListNotices)
	r.GET("/api/events", h.ListEvents)
	r.GET("/api/posts", h.ListPosts)

	admin := r.Group("/api")
	admin.Use(auth.RequireAdmin())
	admin.POST("/notices", h.CreateNotice)
	admin.POST("/events", h.CreateEvent)

	authed := r.Group("/api")
	authed.Use(auth.RequireAuth())
	authed.GET("/notes", h.ListNotes)
	authed.POST("/notes", h.CreateNote)
	authed.POST("/posts", h.CreatePost)
}

func (h *Handler) ListNotices(c *gin.Context) {
	notices, err := h.store.ListNotices(c.Request.Context())
	if err != nil {
		logger.Error("list notices failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

type createNoticeRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) CreateNotice(c *gin.Context) {
	var req createNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	notice, err := h.store.CreateNotice(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		logger.Error("create notice failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notice"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notice": notice, "success": true})
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.store.ListEvents(c.Request.Context())
	if err != nil {
		logger.Error("list events failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required"`
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	event, err := h.store.CreateEvent(c.Request.Context(), Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	})
	if err != nil {
		logger.Error("create event failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event, "success": true})
}

func (h *Handler) ListNotes(c *gin.Context) {
	notes, err := h.store.ListNotes(c.Request.Context(), c.Query("batch"))
	if err != nil {
		logger.Error("list notes failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (h *Handler) CreateNote(c *gin.Context) {
	identity, _ := middleware.CurrentUser(c)

	subject := c.PostForm("subject")
	batch := c.PostForm("batch")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	fileURL, err := h.uploads.Save(c, file, "notes")
	if err != nil {
		logger.Error("note upload failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload note"})
		return
	}

	note, err := h.store.CreateNote(c.Request.Context(), Note{
		Subject:    subject,
		Batch:      batch,
		FileURL:    fileURL,
		UploadedBy: identity.ID,
	})
	if err != nil {
		logger.Error("create note failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload note"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note, "success": true})
}

func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.store.ListPosts(c.Request.Context())
	if err != nil {
		logger.Error("list posts failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) CreatePost(c *gin.Context) {
	identity, _ := middleware.CurrentUser(c)

	title := c.PostForm("title")
	content := c.PostForm("content")
	postType := PostType(c.PostForm("type"))
	if postType != PostTypeBlog && postType != PostTypeMedia {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post type"})
		return
	}

	var mediaURL *string
	if file, err := c.FormFile("file"); err == nil {
		url, err := h.uploads.Save(c, file, "")
		if err != nil {
			logger.Error("post upload failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
			return
		}
		mediaURL = &url
	}

	post, err := h.store.CreatePost(c.Request.Context(), Post{
		Title:    title,
		Content:  content,
		Type:     postType,
		MediaURL: mediaURL,
		AuthorID: identity.ID,
	})
	if err != nil {
		logger.Error("create post failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "success": true})
}
