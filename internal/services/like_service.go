package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/isdelr/social-be/internal/database"
	"github.com/isdelr/social-be/internal/models"
)

// LikeServiceProvider defines the interface for like services.
type LikeServiceProvider interface {
	CreateLike(ctx context.Context, userID, postID int64) (models.Like, bool, error)
	ListLikes(ctx context.Context, postID int64) ([]models.LikeView, error)
}

// LikeService provides business logic for likes.
type LikeService struct {
	db     *database.DB
	events EventServiceProvider
}

// NewLikeService creates a new LikeService.
func NewLikeService(db *database.DB, events EventServiceProvider) *LikeService {
	return &LikeService{db: db, events: events}
}

// CreateLike records that userID likes postID. The insert is a no-op when the
// pair already exists; created is false in that case. Concurrent duplicates are
// settled by the unique constraint.
func (s *LikeService) CreateLike(ctx context.Context, userID, postID int64) (models.Like, bool, error) {
	if postID <= 0 {
		return models.Like{}, false, ErrPostIDRequired
	}

	like := models.Like{PostID: postID, UserID: userID}
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		INSERT INTO likes (post_id, user_id) VALUES (?, ?)
		ON CONFLICT (post_id, user_id) DO NOTHING
		RETURNING id`),
		postID, userID,
	).Scan(&like.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Like{}, false, nil
		}
		return models.Like{}, false, err
	}

	s.events.Emit(ctx, models.EventLikeCreated, like)
	return like, true, nil
}

// ListLikes returns the usernames of everyone who liked a post.
func (s *LikeService) ListLikes(ctx context.Context, postID int64) ([]models.LikeView, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT users.username
		FROM likes
		JOIN users ON likes.user_id = users.id
		WHERE likes.post_id = ?
		ORDER BY likes.id`), postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := []models.LikeView{}
	for rows.Next() {
		var l models.LikeView
		if err := rows.Scan(&l.Username); err != nil {
			return nil, err
		}
		likes = append(likes, l)
	}
	return likes, rows.Err()
}
