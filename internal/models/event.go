package models

import "time"

// Event types emitted after successful writes and by the stats reporter.
const (
	EventPostCreated    = "post.created"
	EventCommentCreated = "comment.created"
	EventLikeCreated    = "like.created"
	EventStats          = "stats"
)

// Event represents something that happened which live clients may want to see.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // e.g., "post.created", "stats"
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}
