package models

// Like records that a user liked a post. (post_id, user_id) is unique.
type Like struct {
	ID     int64 `json:"id"`
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

// LikeView names a user who liked a post.
type LikeView struct {
	Username string `json:"username"`
}
