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
	// ErrPostIDRequired means the referenced post id was missing.
	ErrPostIDRequired = errors.New("post_id is required")
	// ErrCommentNotFound means no comment matched the lookup.
	ErrCommentNotFound = errors.New("comment not found")
)

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	CreateComment(ctx context.Context, userID, postID int64, content string) (models.Comment, error)
	GetCommentByID(ctx context.Context, id int64) (models.Comment, error)
	ListComments(ctx context.Context, postID int64) ([]models.CommentView, error)
}

// CommentService provides business logic for comments.
type CommentService struct {
	db     *database.DB
	events EventServiceProvider
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *database.DB, events EventServiceProvider) *CommentService {
	return &CommentService{db: db, events: events}
}

// CreateComment stores a comment on postID. The post is not looked up first:
// a dangling reference is rejected by the foreign key and surfaces as a
// database error.
func (s *CommentService) CreateComment(ctx context.Context, userID, postID int64, content string) (models.Comment, error) {
	if postID <= 0 {
		return models.Comment{}, ErrPostIDRequired
	}
	if strings.TrimSpace(content) == "" {
		return models.Comment{}, ErrContentRequired
	}

	var id int64
	err := s.db.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO comments (post_id, user_id, content) VALUES (?, ?, ?) RETURNING id"),
		postID, userID, content,
	).Scan(&id)
	if err != nil {
		return models.Comment{}, err
	}

	comment, err := s.GetCommentByID(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}

	s.events.Emit(ctx, models.EventCommentCreated, comment)
	return comment, nil
}

// GetCommentByID retrieves a single comment by its ID.
func (s *CommentService) GetCommentByID(ctx context.Context, id int64) (models.Comment, error) {
	var c models.Comment
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT id, post_id, user_id, content, created_at FROM comments WHERE id = ?"), id)
	if err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Comment{}, fmt.Errorf("%w: id %d", ErrCommentNotFound, id)
		}
		return models.Comment{}, err
	}
	return c, nil
}

// ListComments returns the comments of a post with their authors, oldest first.
func (s *CommentService) ListComments(ctx context.Context, postID int64) ([]models.CommentView, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT comments.id, comments.content, comments.created_at, users.username
		FROM comments
		JOIN users ON comments.user_id = users.id
		WHERE comments.post_id = ?
		ORDER BY comments.created_at ASC, comments.id ASC`), postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.CommentView{}
	for rows.Next() {
		var c models.CommentView
		if err := rows.Scan(&c.ID, &c.Content, &c.CreatedAt, &c.Username); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
