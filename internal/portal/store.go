package portal

import (
	"context"
	"fmt"

	"campus-portal/internal/db"
)

// Store is the read/write surface the portal handlers depend on.
// Handlers are tested against fakes; SQLStore is the postgres
// implementation used in the wired app.
type Store interface {
	ListNotices(ctx context.Context) ([]Notice, error)
	CreateNotice(ctx context.Context, title, content string) (Notice, error)

	ListEvents(ctx context.Context) ([]Event, error)
	CreateEvent(ctx context.Context, e Event) (Event, error)

	ListNotes(ctx context.Context, batch string) ([]Note, error)
	CreateNote(ctx context.Context, n Note) (Note, error)

	ListPosts(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, p Post) (Post, error)
}

type SQLStore struct {
	db *db.DB
}

func NewSQLStore(db *db.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) ListNotices(ctx context.Context) ([]Notice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, created_at
		FROM notices
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("portal: list notices: %w", err)
	}
	defer rows.Close()

	notices := []Notice{}
	for rows.Next() {
		var n Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("portal: scan notice: %w", err)
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (s *SQLStore) CreateNotice(ctx context.Context, title, content string) (Notice, error) {
	var n Notice
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notices (title, content)
		VALUES ($1, $2)
		RETURNING id, title, content, created_at
	`, title, content).Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt)
	if err != nil {
		return Notice{}, fmt.Errorf("portal: create notice: %w", err)
	}
	return n, nil
}

func (s *SQLStore) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, date, location, created_at
		FROM events
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("portal: list events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("portal: scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *SQLStore) CreateEvent(ctx context.Context, e Event) (Event, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO events (title, description, date, location)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, e.Title, e.Description, e.Date, e.Location).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("portal: create event: %w", err)
	}
	return e, nil
}

func (s *SQLStore) ListNotes(ctx context.Context, batch string) ([]Note, error) {
	query := `
		SELECT n.id, n.subject, n.batch, n.file_url, n.uploaded_by, u.email, n.created_at
		FROM notes n
		JOIN users u ON u.id = n.uploaded_by
	`
	args := []any{}
	if batch != "" {
		query += ` WHERE n.batch = $1`
		args = append(args, batch)
	}
	query += ` ORDER BY n.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("portal: list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.Subject, &n.Batch, &n.FileURL, &n.UploadedBy, &n.UploaderEmail, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("portal: scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLStore) CreateNote(ctx context.Context, n Note) (Note, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO notes (subject, batch, file_url, uploaded_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, n.Subject, n.Batch, n.FileURL, n.UploadedBy).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return Note{}, fmt.Errorf("portal: create note: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT email FROM users WHERE id = $1
	`, n.UploadedBy).Scan(&n.UploaderEmail)
	if err != nil {
		return Note{}, fmt.Errorf("portal: resolve uploader: %w", err)
	}
	return n, nil
}

func (s *SQLStore) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.title, p.content, p.type, p.media_url, p.author_id, u.email, u.role, p.created_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("portal: list posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Type, &p.MediaURL, &p.AuthorID, &p.AuthorEmail, &p.AuthorRole, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("portal: scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *SQLStore) CreatePost(ctx context.Context, p Post) (Post, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, content, type, media_url, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, p.Title, p.Content, p.Type, p.MediaURL, p.AuthorID).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return Post{}, fmt.Errorf("portal: create post: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT email, role FROM users WHERE id = $1
	`, p.AuthorID).Scan(&p.AuthorEmail, &p.AuthorRole)
	if err != nil {
		return Post{}, fmt.Errorf("portal: resolve author: %w", err)
	}
	return p, nil
}
