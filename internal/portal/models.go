package portal

import (
	"time"

	"campus-portal/internal/auth"
)

// Notice is an announcement posted by an admin, visible to everyone.
type Notice struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is a campus event posted by an admin.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Note is a study-material upload shared by a student or admin.
type Note struct {
	ID            int64     `json:"id"`
	Subject       string    `json:"subject"`
	Batch         string    `json:"batch"`
	FileURL       string    `json:"fileUrl"`
	UploadedBy    int64     `json:"uploadedBy"`
	UploaderEmail string    `json:"uploaderEmail"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PostType distinguishes text posts from media posts on the feed.
type PostType string

const (
	PostTypeBlog  PostType = "BLOG"
	PostTypeMedia PostType = "MEDIA"
)

// Post is a feed entry authored by any authenticated user.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Type        PostType  `json:"type"`
	MediaURL    *string   `json:"mediaUrl"`
	AuthorID    int64     `json:"authorId"`
	AuthorEmail string    `json:"authorEmail"`
	AuthorRole  auth.Role `json:"authorRole"`
	CreatedAt   time.Time `json:"createdAt"`
}
