package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/models"
)

var (
	// ErrContentRequired means the content was empty or blank.
	ErrContentRequired = errors.New("content is required")
	// ErrPostNotFound means no post matched the lookup.
	ErrPostNotFound = errors.New("post not found")
)

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(ctx context.Context, userID int64, content string) (models.Post, error)
	GetPostByID(ctx context.Context, id int64) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.PostView, error)
}

// PostService provides business logic for posts.
type PostService struct {
	db     *database.DB
	events EventServiceProvider
}

// NewPostService creates a new PostService.
func NewPostService(db *database.DB, events EventServiceProvider) *PostService {
	return &PostService{db: db, events: events}
}

// CreatePost stores a post authored by userID and returns the stored row.
func (s *PostService) CreatePost(ctx context.Context, userID int64, content string) (models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return models.Post{}, ErrContentRequired
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO posts (user_id, content) VALUES (?, ?) RETURNING id"),
		userID, content,
	).Scan(&id)
	if err != nil {
		return models.Post{}, err
	}

	post, err := s.GetPostByID(ctx, id)
	if err != nil {
		return models.Post{}, err
	}

	s.events.Emit(ctx, models.EventPostCreated, post)
	return post, nil
}

// GetPostByID retrieves a single post by its ID.
func (s *PostService) GetPostByID(ctx context.Context, id int64) (models.Post, error) {
	var post models.Post
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT id, user_id, content, created_at FROM posts WHERE id = ?"), id)
	if err := row.Scan(&post.ID, &post.UserID, &post.Content, &post.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, fmt.Errorf("%w: id %d", ErrPostNotFound, id)
		}
		return models.Post{}, err
	}
	return post, nil
}

// ListPosts returns every post with its author, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]models.PostView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT posts.id, posts.content, posts.created_at, users.username
		FROM posts
		JOIN users ON posts.user_id = users.id
		ORDER BY posts.created_at DESC, posts.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.PostView{}
	for rows.Next() {
		var p models.PostView
		if err := rows.Scan(&p.ID, &p.Content, &p.CreatedAt, &p.Username); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
