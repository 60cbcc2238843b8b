package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an Openflock account
type User struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string `gorm:"not null" json:"display_name"`
	Bio         string `gorm:"type:text" json:"bio"`
	Link        string `gorm:"type:text" json:"link"`

	// Opaque to everything except the auth service
	PasswordHash string `gorm:"type:text;not null" json:"-"`

	// Image references; upload/hosting happens outside this service
	AvatarURL string `json:"avatar_url"`
	CoverURL  string `json:"cover_url"`

	// Cached edge counts; the follows/post_likes tables are the source of
	// truth, these are repaired by the backfill-counts CLI when they drift.
	FollowerCount  int `gorm:"default:0" json:"follower_count"`
	FollowingCount int `gorm:"default:0" json:"following_count"`
	PostCount      int `gorm:"default:0" json:"post_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Post represents a short message with an optional image
type Post struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Text and ImageURL may not both be empty
	Text     string `gorm:"type:text" json:"text"`
	ImageURL string `json:"image_url"`

	LikeCount    int `gorm:"default:0" json:"like_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment represents a comment on a Post. Comments are owned by their post
// and ordered by insertion; there is no re-sorting or dedup.
type Comment struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	PostID string `gorm:"not null;index:idx_comments_post_created" json:"post_id"`
	UserID string `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Body string `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time `gorm:"index:idx_comments_post_created" json:"created_at"`
}

// Follow is a directed edge in the follow graph: follower follows followee.
// Both sides of the relationship (B.followers and A.following) read from
// this one row, so the edge can never be asymmetric.
type Follow struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID string `gorm:"not null;uniqueIndex:idx_follows_edge;index" json:"follower_id"`
	FolloweeID string `gorm:"not null;uniqueIndex:idx_follows_edge;index" json:"followee_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName ensures unique constraint: one edge per user pair
func (Follow) TableName() string {
	return "follows"
}

// PostLike records that a user likes a post. One row serves both
// Post.likes and User.likedPosts lookups.
type PostLike struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	PostID string `gorm:"not null;uniqueIndex:idx_post_likes_edge;index" json:"post_id"`
	UserID string `gorm:"not null;uniqueIndex:idx_post_likes_edge;index" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName ensures unique constraint: one like per user per post
func (PostLike) TableName() string {
	return "post_likes"
}

// NotificationType enumerates the events that fan out to recipients
type NotificationType string

const (
	NotificationFollow NotificationType = "follow"
	NotificationLike   NotificationType = "like"
)

// Notification is an append-only fan-out record owned by its recipient
type Notification struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	FromUserID string `gorm:"not null;index" json:"from_user_id"`
	From       User   `gorm:"foreignKey:FromUserID" json:"from,omitempty"`
	ToUserID   string `gorm:"not null;index:idx_notifications_to_created" json:"to_user_id"`

	Type NotificationType `gorm:"not null" json:"type"`
	Read bool             `gorm:"default:false" json:"read"`

	CreatedAt time.Time `gorm:"index:idx_notifications_to_created" json:"created_at"`
}

// BeforeCreate hooks for GORM

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = generateUUID()
	}
	return nil
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = generateUUID()
	}
	return nil
}

// Helper function for UUID generation
func generateUUID() string {
	return uuid.New().String()
}
